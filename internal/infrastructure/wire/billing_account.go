package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Billing RPC messages, assembled with protowire like the patient event:
//
//	message BillingRequest {
//	  string patient_id = 1;
//	  string name       = 2;
//	  string email      = 3;
//	}
//
//	message BillingResponse {
//	  string account_id = 1;
//	  string status     = 2;
//	}

const (
	fieldBillingPatientID = 1
	fieldBillingName      = 2
	fieldBillingEmail     = 3

	fieldBillingAccountID = 1
	fieldBillingStatus    = 2
)

// BillingAccountReply is the decoded form of the billing service's response.
type BillingAccountReply struct {
	AccountID string
	Status    string
}

// EncodeBillingRequest serializes a create-account request into protobuf
// wire bytes.
func EncodeBillingRequest(patientID, name, email string) []byte {
	var b []byte
	b = appendStringField(b, fieldBillingPatientID, patientID)
	b = appendStringField(b, fieldBillingName, name)
	b = appendStringField(b, fieldBillingEmail, email)
	return b
}

// DecodeBillingResponse parses the billing service's reply. Unknown fields
// are skipped.
func DecodeBillingResponse(b []byte) (BillingAccountReply, error) {
	var reply BillingAccountReply
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return reply, fmt.Errorf("decode billing response: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return reply, fmt.Errorf("decode billing response: field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return reply, fmt.Errorf("decode billing response: field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldBillingAccountID:
			reply.AccountID = v
		case fieldBillingStatus:
			reply.Status = v
		}
	}
	return reply, nil
}

// DecodeBillingRequest parses a create-account request. The billing stub in
// tests uses it to assert what the client sent.
func DecodeBillingRequest(b []byte) (patientID, name, email string, err error) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", "", "", fmt.Errorf("decode billing request: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return "", "", "", fmt.Errorf("decode billing request: field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return "", "", "", fmt.Errorf("decode billing request: field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldBillingPatientID:
			patientID = v
		case fieldBillingName:
			name = v
		case fieldBillingEmail:
			email = v
		}
	}
	return patientID, name, email, nil
}

// EncodeBillingResponse serializes a billing reply. Test servers use it; the
// production client only decodes.
func EncodeBillingResponse(reply BillingAccountReply) []byte {
	var b []byte
	b = appendStringField(b, fieldBillingAccountID, reply.AccountID)
	b = appendStringField(b, fieldBillingStatus, reply.Status)
	return b
}

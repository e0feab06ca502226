// Package wire encodes patient change events into their protobuf wire form.
//
// The schema is fixed and tiny (four string fields), so the message is
// assembled directly with protowire instead of going through generated code:
//
//	message PatientEvent {
//	  string patient_id = 1;
//	  string name       = 2;
//	  string email      = 3;
//	  string event_type = 4;
//	}
//
// Consumers decode it with any standard protobuf runtime.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/medtrack/patient-system/internal/core/domain"
)

const (
	fieldPatientID = 1
	fieldName      = 2
	fieldEmail     = 3
	fieldEventType = 4
)

// EncodePatientEvent serializes the event into protobuf wire bytes.
func EncodePatientEvent(e domain.PatientChangeEvent) []byte {
	var b []byte
	b = appendStringField(b, fieldPatientID, e.PatientID)
	b = appendStringField(b, fieldName, e.Name)
	b = appendStringField(b, fieldEmail, e.Email)
	b = appendStringField(b, fieldEventType, string(e.Type))
	return b
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// DecodePatientEvent parses protobuf wire bytes back into an event. Unknown
// fields are skipped so the schema can grow without breaking old readers.
func DecodePatientEvent(b []byte) (domain.PatientChangeEvent, error) {
	var e domain.PatientChangeEvent
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return e, fmt.Errorf("decode patient event: %w", protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return e, fmt.Errorf("decode patient event: field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeString(b)
		if n < 0 {
			return e, fmt.Errorf("decode patient event: field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldPatientID:
			e.PatientID = v
		case fieldName:
			e.Name = v
		case fieldEmail:
			e.Email = v
		case fieldEventType:
			e.Type = domain.EventType(v)
		}
	}
	return e, nil
}

package ports

import "context"

// BillingClient opens a billing account for a newly created patient. The
// billing system is an opaque external collaborator; only this one call is
// part of the contract.
type BillingClient interface {
	CreateBillingAccount(ctx context.Context, patientID, name, email string) error
}

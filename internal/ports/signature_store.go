package ports

import "context"

// Port: persistence for proof-of-delivery signature artifacts.
type SignatureStore interface {
	// Store the signature PNG captured for a delivered order. Writing the
	// same order again replaces the previous artifact.
	SaveSignature(ctx context.Context, orderID int, png []byte) error
}

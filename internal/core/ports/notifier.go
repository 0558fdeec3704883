package ports

import "context"

// ResetNotifier delivers a password-reset link out of band. Delivery is an
// external collaborator; the core only produces the token and the link.
type ResetNotifier interface {
	SendResetLink(ctx context.Context, email, link string) error
}

package agreement

import (
	"context"
)

// Store is the persistence interface for the leasing records. Lookups
// return (nil, nil) when the record does not exist.
type Store interface {
	SaveAgreement(ctx context.Context, a Agreement) error
	GetAgreement(ctx context.Context, id string) (*Agreement, error)
	ListAgreements(ctx context.Context) ([]Agreement, error)
	ListAgreementsByCompany(ctx context.Context, companyID string) ([]Agreement, error)

	SaveOffice(ctx context.Context, o Office) error
	GetOffice(ctx context.Context, id string) (*Office, error)
	ListOffices(ctx context.Context) ([]Office, error)

	SaveNotice(ctx context.Context, n TerminationNotice) error
	GetNotice(ctx context.Context, id string) (*TerminationNotice, error)
	ListNoticesByCompany(ctx context.Context, companyID string) ([]TerminationNotice, error)

	Close() error
}

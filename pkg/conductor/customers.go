package conductor

import "context"

const resourceCustomers = "customers"

type Customer struct {
	ID             string  `json:"id"`
	ObjectType     string  `json:"objectType,omitempty"`
	CreatedAt      string  `json:"createdAt,omitempty"`
	UpdatedAt      string  `json:"updatedAt,omitempty"`
	RevisionNumber string  `json:"revisionNumber"`
	Name           string  `json:"name"`
	FullName       string  `json:"fullName,omitempty"`
	IsActive       bool    `json:"isActive"`
	CompanyName    *string `json:"companyName,omitempty"`
	FirstName      *string `json:"firstName,omitempty"`
	LastName       *string `json:"lastName,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Note           *string `json:"note,omitempty"`
	Balance        *string `json:"balance,omitempty"`
}

type CustomerCreateParams struct {
	Name        string  `json:"name" validate:"required,max=41"`
	IsActive    *bool   `json:"isActive,omitempty"`
	CompanyName *string `json:"companyName,omitempty" validate:"omitempty,max=41"`
	FirstName   *string `json:"firstName,omitempty" validate:"omitempty,max=25"`
	LastName    *string `json:"lastName,omitempty" validate:"omitempty,max=25"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=1023"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=21"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=4095"`
}

// CustomerUpdateParams must carry the revisionNumber the caller last read.
type CustomerUpdateParams struct {
	RevisionNumber string  `json:"revisionNumber" validate:"required"`
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=41"`
	IsActive       *bool   `json:"isActive,omitempty"`
	CompanyName    *string `json:"companyName,omitempty" validate:"omitempty,max=41"`
	FirstName      *string `json:"firstName,omitempty" validate:"omitempty,max=25"`
	LastName       *string `json:"lastName,omitempty" validate:"omitempty,max=25"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email,max=1023"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=21"`
	Note           *string `json:"note,omitempty" validate:"omitempty,max=4095"`
}

func (c *Client) ListCustomers(ctx context.Context, params ListParams) (*ListResponse[Customer], error) {
	return listPage[Customer](ctx, c, resourceCustomers, params)
}

func (c *Client) ListAllCustomers(ctx context.Context, params ListParams) ([]Customer, error) {
	return listAll[Customer](ctx, c, resourceCustomers, params)
}

func (c *Client) RetrieveCustomer(ctx context.Context, id string) (*Customer, error) {
	return retrieve[Customer](ctx, c, resourceCustomers, id)
}

func (c *Client) CreateCustomer(ctx context.Context, params CustomerCreateParams) (*Customer, error) {
	return create[Customer](ctx, c, resourceCustomers, params)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, params CustomerUpdateParams) (*Customer, error) {
	return update[Customer](ctx, c, resourceCustomers, id, params)
}

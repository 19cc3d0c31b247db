package dto

// CustomerDTO is the transport shape of a customer.
//
// The validate tags apply to create and replace payloads, the patch tags to
// partial payloads where a blank name means "leave unchanged".
type CustomerDTO struct {
	ID               int32          `json:"id"`
	CustomerName     string         `json:"customerName"               validate:"required,notblank,max=255" patch:"max=255"`
	CreatedDate      *LocalDateTime `json:"createdDate,omitempty"`
	LastModifiedDate *LocalDateTime `json:"lastModifiedDate,omitempty"`
}

package event

const (
	TopicCustomerCreated = "customer.created"
	TopicCustomerUpdated = "customer.updated"
	TopicCustomerDeleted = "customer.deleted"

	TopicBeerCreated = "beer.created"
	TopicBeerUpdated = "beer.updated"
	TopicBeerDeleted = "beer.deleted"
)

// CustomerChangedEvent is published for every customer write.
// Only the id is set on deletion.
type CustomerChangedEvent struct {
	CustomerID   int32  `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
}

// BeerChangedEvent is published for every beer write.
// Only the id is set on deletion.
type BeerChangedEvent struct {
	BeerID         int32  `json:"beer_id"`
	BeerName       string `json:"beer_name,omitempty"`
	BeerStyle      string `json:"beer_style,omitempty"`
	UPC            string `json:"upc,omitempty"`
	Price          string `json:"price,omitempty"`
	QuantityOnHand *int32 `json:"quantity_on_hand,omitempty"`
}

package model

import "time"

type Customer struct {
	ID               int32     `db:"id"`
	CustomerName     string    `db:"customer_name"`
	CreatedDate      time.Time `db:"created_date"`
	LastModifiedDate time.Time `db:"last_modified_date"`
}

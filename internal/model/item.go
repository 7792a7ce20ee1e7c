package model

import "time"

// ItemCollection is the collection (or JSONB partition) that stores items.
const ItemCollection = "items"

// Item is the example resource mounted by the API.
type Item struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Tags        []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

func (i Item) GetID() string { return i.ID }

func (i Item) WithID(id string) Item {
	i.ID = id
	return i
}

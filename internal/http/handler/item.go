package handler

import (
	"time"

	"crudapi/internal/model"
	"crudapi/internal/repository"
)

// ItemController serves /api/v1/items.
type ItemController = Controller[model.Item, CreateItemRequest, UpdateItemRequest, ItemFilter]

// CreateItemRequest is the body of POST /items.
type CreateItemRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=1000"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,required,max=40"`
}

func (r CreateItemRequest) ToEntity() model.Item {
	now := time.Now().UTC()
	return model.Item{
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		Tags:        r.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateItemRequest is the body of PUT /items and PUT /items/:id. Absent fields
// are left untouched.
type UpdateItemRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,required,max=40"`
}

// ToPatch stamps updated_at only when at least one field is set, so an empty
// body is still rejected as "Nothing to update".
func (r UpdateItemRequest) ToPatch() repository.Patch {
	set := repository.Set{}
	if r.Name != nil {
		set["name"] = *r.Name
	}
	if r.Description != nil {
		set["description"] = *r.Description
	}
	if r.Quantity != nil {
		set["quantity"] = *r.Quantity
	}
	if r.Tags != nil {
		set["tags"] = r.Tags
	}
	if len(set) > 0 {
		set["updated_at"] = time.Now().UTC()
	}
	return set
}

// ItemFilter is the query-string filter accepted by list, bulk and export routes.
type ItemFilter struct {
	Name     string `query:"name" json:"name" validate:"omitempty,max=120"`
	Quantity *int   `query:"quantity" json:"quantity" validate:"omitempty,gte=0"`
}

func (f ItemFilter) ToQuery() repository.Query {
	m := repository.Match{}
	if f.Name != "" {
		m["name"] = f.Name
	}
	if f.Quantity != nil {
		m["quantity"] = *f.Quantity
	}
	return m
}

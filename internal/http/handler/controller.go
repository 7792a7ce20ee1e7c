package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"crudapi/internal/errs"
	"crudapi/internal/model"
	"crudapi/internal/repository"
	"crudapi/internal/service"
	"crudapi/internal/validation"
)

// MaxBatchSize caps the number of documents accepted by one bulk create.
const MaxBatchSize = 100

// CreatePayload is a request body that builds a new entity.
type CreatePayload[T any] interface {
	ToEntity() T
}

// UpdatePayload is a request body that builds a partial update.
type UpdatePayload interface {
	ToPatch() repository.Patch
}

// ListFilter is a set of query-string filters.
type ListFilter interface {
	ToQuery() repository.Query
}

// Controller exposes the CRUD surface of one resource over HTTP.
//
// C, U and F are value types decoded from the request (body or query string) and
// checked by the validator before any service call.
type Controller[T model.Entity[T], C CreatePayload[T], U UpdatePayload, F ListFilter] struct {
	path     string
	svc      service.CRUDService[T]
	exporter service.Exporter
	validate validation.Validator
	log      *zap.Logger
}

// NewController mounts svc under path. exporter may be nil, in which case
// POST <path>/export is not registered.
func NewController[T model.Entity[T], C CreatePayload[T], U UpdatePayload, F ListFilter](
	path string,
	svc service.CRUDService[T],
	exporter service.Exporter,
	v validation.Validator,
	log *zap.Logger,
) *Controller[T, C, U, F] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller[T, C, U, F]{
		path:     path,
		svc:      svc,
		exporter: exporter,
		validate: v,
		log:      log,
	}
}

// Path is the mount point relative to the API prefix.
func (ctl *Controller[T, C, U, F]) Path() string { return ctl.path }

// Register attaches the resource routes to r.
func (ctl *Controller[T, C, U, F]) Register(r fiber.Router) {
	r.Post("/", ctl.Create)
	r.Post("/bulk", ctl.CreateMany)
	r.Get("/", ctl.List)
	r.Put("/", ctl.UpdateMany)
	r.Delete("/", ctl.DeleteMany)
	if ctl.exporter != nil {
		r.Post("/export", ctl.Export)
	}
	r.Get("/:id", ctl.GetByID)
	r.Put("/:id", ctl.Update)
	r.Delete("/:id", ctl.Delete)
}

// Create godoc
// @Summary  Create a document
// @Accept   json
// @Produce  json
// @Success  201 {object} successPayload
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items [post]
func (ctl *Controller[T, C, U, F]) Create(c *fiber.Ctx) error {
	var body C
	if err := ctl.bind(c, &body); err != nil {
		return fail(c, ctl.log, err)
	}

	doc, err := ctl.svc.Add(c.UserContext(), body.ToEntity())
	if err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusCreated, MsgCreated, doc)
}

// CreateMany godoc
// @Summary  Create several documents from a JSON array
// @Accept   json
// @Produce  json
// @Success  201 {object} successPayload
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items/bulk [post]
func (ctl *Controller[T, C, U, F]) CreateMany(c *fiber.Ctx) error {
	var body []C
	if err := ctl.bindMany(c, &body); err != nil {
		return fail(c, ctl.log, err)
	}

	entities := make([]T, len(body))
	for i, b := range body {
		entities[i] = b.ToEntity()
	}

	docs, err := ctl.svc.AddMany(c.UserContext(), entities)
	if err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusCreated, MsgCreatedMany, docs)
}

// List godoc
// @Summary  List documents, paginated when page or limit is given
// @Produce  json
// @Param    page  query int    false "1-indexed page"
// @Param    limit query int    false "page size (max 100)"
// @Param    sort  query string false "field or -field"
// @Success  200 {object} successPayload
// @Router   /api/v1/items [get]
func (ctl *Controller[T, C, U, F]) List(c *fiber.Ctx) error {
	q, err := ctl.query(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	pq, paginated, err := pageQuery(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	if !paginated {
		items, err := ctl.svc.FindAll(c.UserContext(), q)
		if err != nil {
			return fail(c, ctl.log, err)
		}
		if items == nil {
			items = make([]T, 0)
		}
		return respond(c, fiber.StatusOK, MsgFetchedMany, items)
	}

	res, err := ctl.svc.FindAllPaginated(c.UserContext(), pq, q)
	if err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusOK, MsgFetchedMany, res)
}

// GetByID godoc
// @Summary  Fetch one document
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} successPayload
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items/{id} [get]
func (ctl *Controller[T, C, U, F]) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	doc, err := ctl.svc.FindOne(c.UserContext(), repository.ByID(id))
	if err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusOK, MsgFetched, doc)
}

// Update godoc
// @Summary  Update one document
// @Accept   json
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} successPayload
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items/{id} [put]
func (ctl *Controller[T, C, U, F]) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	var body U
	if err := ctl.bind(c, &body); err != nil {
		return fail(c, ctl.log, err)
	}

	doc, err := ctl.svc.UpdateOne(c.UserContext(), repository.ByID(id), body.ToPatch())
	if err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusOK, MsgUpdated, doc)
}

// UpdateMany godoc
// @Summary  Update every document matching the query-string filter
// @Accept   json
// @Produce  json
// @Success  200 {object} successPayload
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items [put]
func (ctl *Controller[T, C, U, F]) UpdateMany(c *fiber.Ctx) error {
	q, err := ctl.requiredQuery(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	var body U
	if err := ctl.bind(c, &body); err != nil {
		return fail(c, ctl.log, err)
	}

	if err := ctl.svc.UpdateAll(c.UserContext(), q, body.ToPatch()); err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusOK, MsgUpdated, nil)
}

// Delete godoc
// @Summary  Delete one document
// @Produce  json
// @Param    id path string true "document id"
// @Success  200 {object} successPayload
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items/{id} [delete]
func (ctl *Controller[T, C, U, F]) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	if err := ctl.svc.DeleteOne(c.UserContext(), repository.ByID(id)); err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusOK, MsgDeleted, nil)
}

// DeleteMany godoc
// @Summary  Delete every document matching the query-string filter
// @Produce  json
// @Success  200 {object} successPayload
// @Failure  400 {object} errorPayload
// @Router   /api/v1/items [delete]
func (ctl *Controller[T, C, U, F]) DeleteMany(c *fiber.Ctx) error {
	q, err := ctl.requiredQuery(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	if err := ctl.svc.DeleteAll(c.UserContext(), q); err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusOK, MsgDeleted, nil)
}

// Export godoc
// @Summary  Export matching documents as NDJSON to object storage
// @Produce  json
// @Success  201 {object} successPayload
// @Failure  502 {object} errorPayload
// @Router   /api/v1/items/export [post]
func (ctl *Controller[T, C, U, F]) Export(c *fiber.Ctx) error {
	q, err := ctl.query(c)
	if err != nil {
		return fail(c, ctl.log, err)
	}

	res, err := ctl.exporter.Export(c.UserContext(), q)
	if err != nil {
		return fail(c, ctl.log, err)
	}
	return respond(c, fiber.StatusCreated, MsgExportStored, res)
}

// bind decodes the JSON body into dst and validates it.
func (ctl *Controller[T, C, U, F]) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errs.New(http.StatusBadRequest, errs.MsgInvalidBody)
	}
	return ctl.validate.Validate(dst)
}

// bindMany decodes a JSON array body and validates every element. Field errors
// are reported as [index].field.
func (ctl *Controller[T, C, U, F]) bindMany(c *fiber.Ctx, dst *[]C) error {
	if err := c.BodyParser(dst); err != nil {
		return errs.New(http.StatusBadRequest, errs.MsgInvalidBody)
	}
	switch n := len(*dst); {
	case n == 0:
		return errs.New(http.StatusBadRequest, errs.MsgEmptyBatch)
	case n > MaxBatchSize:
		return errs.New(http.StatusBadRequest, fmt.Sprintf("At most %d documents per request", MaxBatchSize))
	}

	var fields []errs.FieldError
	for i := range *dst {
		err := ctl.validate.Validate(&(*dst)[i])
		if err == nil {
			continue
		}
		var he *errs.HTTPException
		if !errors.As(err, &he) || len(he.Fields) == 0 {
			return err
		}
		for _, f := range he.Fields {
			fields = append(fields, errs.FieldError{Field: fmt.Sprintf("[%d].%s", i, f.Field), Error: f.Error})
		}
	}
	if len(fields) > 0 {
		return errs.Invalid(fields)
	}
	return nil
}

// query decodes and validates the resource filter from the query string.
func (ctl *Controller[T, C, U, F]) query(c *fiber.Ctx) (repository.Query, error) {
	var f F
	if err := c.QueryParser(&f); err != nil {
		return nil, errs.New(http.StatusBadRequest, err.Error())
	}
	if err := ctl.validate.Validate(&f); err != nil {
		return nil, err
	}
	return f.ToQuery(), nil
}

// requiredQuery is query for bulk operations, which never run unfiltered.
func (ctl *Controller[T, C, U, F]) requiredQuery(c *fiber.Ctx) (repository.Query, error) {
	q, err := ctl.query(c)
	if err != nil {
		return nil, err
	}
	if len(repository.FilterOf(q)) == 0 {
		return nil, errs.New(http.StatusBadRequest, errs.MsgFilterRequired)
	}
	return q, nil
}

// pathID returns params.id. Only presence is checked; an id that matches nothing
// is reported by the service as not found.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if id == "" {
		return "", errs.New(http.StatusBadRequest, errs.MsgIDNotProvided)
	}
	return id, nil
}

// pageQuery reads page, limit and sort. paginated is false when neither page
// nor limit was sent.
func pageQuery(c *fiber.Ctx) (pq repository.PageQuery, paginated bool, err error) {
	page, limit := c.Query("page"), c.Query("limit")
	if page == "" && limit == "" {
		return repository.PageQuery{}, false, nil
	}

	if page != "" {
		if pq.Page, err = strconv.Atoi(page); err != nil {
			return pq, false, errs.New(http.StatusBadRequest, "invalid page")
		}
	}
	if limit != "" {
		if pq.Limit, err = strconv.Atoi(limit); err != nil {
			return pq, false, errs.New(http.StatusBadRequest, "invalid limit")
		}
	}
	pq.Sort = repository.ParseSort(c.Query("sort"))
	return pq, true, nil
}

package handler

import "github.com/gofiber/fiber/v2"

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Messages rendered in the success envelope.
const (
	MsgCreated      = "Document created successfully"
	MsgCreatedMany  = "Documents created successfully"
	MsgFetched      = "Document fetched successfully"
	MsgFetchedMany  = "Documents fetched successfully"
	MsgUpdated      = "Document updated successfully"
	MsgDeleted      = "Document(s) deleted successfully"
	MsgExportStored = "Documents exported successfully"
)

// successPayload is the success half of the response envelope.
type successPayload struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    any    `json:"data"`
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(successPayload{
		Message: message,
		Status:  statusSuccess,
		Data:    data,
	})
}

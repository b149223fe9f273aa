package models

// SendMessageRequest is the request body for publishing a message.
type SendMessageRequest struct {
	Message string `json:"message" example:"hello from the API"`
}

// SendMessageResponse confirms that a message was handed to the broker.
type SendMessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

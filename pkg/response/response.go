package response

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Failure is the body every failed call returns. The UI only branches on
// Success and prints Error verbatim.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Message is used by calls that only need to acknowledge.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Failure{Success: false, Error: msg})
}

func OK(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Message{Success: true, Message: msg})
}

// Payload wraps read results and validation data.
type Payload struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Data(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Payload{Success: true, Data: data})
}

func DataWithMessage(w http.ResponseWriter, status int, msg string, data interface{}) {
	JSON(w, status, Payload{Success: true, Message: msg, Data: data})
}

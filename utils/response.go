package utils

import (
	"encoding/json"
	"net/http"

	"mcpe-gateway-api/models"
)

func SendErrorResponse(w http.ResponseWriter, status int, message string) {
	SendJSON(w, status, models.APIResponse{
		Status:  "error",
		Message: message,
	})
}

func SendSuccessResponse(w http.ResponseWriter, response models.APIResponse) {
	SendJSON(w, http.StatusOK, response)
}

func SendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package viewmodels

import (
	"net/http"
)

func GetRequestIDFromContext(r *http.Request) string {
	if result, ok := r.Context().Value("requestID").(string); ok {
		return result
	}

	return ""
}

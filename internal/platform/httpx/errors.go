package httpx

import "net/http"

// RespondError is the fallback for errors no handler-level mapping
// claimed. Domain handlers translate their own sentinels before calling
// in, so anything arriving here is unexpected and its message is never
// echoed to the client.
func RespondError(w http.ResponseWriter, err error) {
	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

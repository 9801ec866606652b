package routes

import (
	"errors"
	"net/http"

	"finbot/finbot/controllers"
	"finbot/finbot/sources/psql/dao"
)

// writeError maps domain errors onto HTTP statuses: missing records are 404,
// validation failures are 400, anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dao.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, controllers.ErrEmptyQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

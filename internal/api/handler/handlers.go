package handler

import (
	"net/http"
	"time"

	"eclass/internal/api/view"
	"eclass/internal/common"
)

// flashAndRedirect is how every form POST finishes: a one-shot notification
// and a 303 back to a dashboard, success or failure alike.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, path, kind, message string) {
	view.SetFlash(w, kind, message)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// datetime-local inputs submit in this layout.
const dateTimeLocalLayout = "2006-01-02T15:04"

func parseDateTimeLocal(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLocalLayout, value, time.Local)
	if err != nil {
		return time.Time{}, common.Errorf("invalid date: %w", common.ErrBadRequest)
	}
	return t, nil
}

package orders

import "solemart/models"

var validStatuses = map[string]bool{
	models.StatusPending:   true,
	models.StatusConfirmed: true,
	models.StatusShipped:   true,
	models.StatusCompleted: true,
	models.StatusCancelled: true,
}

// defaultNotes are the human-readable history notes used when the caller
// supplies none.
var defaultNotes = map[string]string{
	models.StatusPending:   "order created",
	models.StatusConfirmed: "order confirmed by admin",
	models.StatusShipped:   "order is being shipped",
	models.StatusCompleted: "order completed",
	models.StatusCancelled: "order cancelled",
}

// isTerminal reports whether no further transition is allowed.
func isTerminal(status string) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// cancellable from pending or confirmed only.
func cancellable(status string) bool {
	return status == models.StatusPending || status == models.StatusConfirmed
}

func defaultNote(status string) string {
	if note, ok := defaultNotes[status]; ok {
		return note
	}
	return "status updated"
}

// Package gate derives the capability of an appointment from its status and
// payment flag. The decision is a pure function and is re-evaluated on every
// access attempt, so a payment confirmation or a completion arriving
// mid-session changes capability on the very next action without any
// cache invalidation.
package gate

import (
	"telecare/backend/internal/models"
	"telecare/backend/pkg/apperrors"
)

// Capability is the access decision for one appointment at one moment.
type Capability int

const (
	// Locked: консультацію ще не оплачено. Чат, відео та нотатки закриті;
	// клієнту доступний лише зовнішній email-канал зв'язку.
	Locked Capability = iota
	// Open: оплачена активна консультація. Чат, відео та редагування нотаток дозволені.
	Open
	// ReadOnly: завершена консультація. Історія повідомлень і нотатки
	// доступні для перегляду, нові дії заборонені.
	ReadOnly
	// DeniedTerminal: скасована консультація. Жодного доступу.
	DeniedTerminal
)

func (c Capability) String() string {
	switch c {
	case Locked:
		return "locked"
	case Open:
		return "open"
	case ReadOnly:
		return "read-only"
	case DeniedTerminal:
		return "denied"
	default:
		return "unknown"
	}
}

// Evaluate maps every reachable (status, isPaid) pair to exactly one
// capability. A confirmed appointment behaves like a pending one: no observed
// transition produces it, but if it ever appears the paid/unpaid rule is the
// consistent reading of intent.
func Evaluate(status models.AppointmentStatus, isPaid bool) Capability {
	switch status {
	case models.StatusPending, models.StatusConfirmed:
		if isPaid {
			return Open
		}
		return Locked
	case models.StatusCompleted:
		return ReadOnly
	case models.StatusCancelled:
		return DeniedTerminal
	default:
		// Невідомий статус трактуємо як скасований: найбезпечніший варіант.
		return DeniedTerminal
	}
}

// For — зручна обгортка над Evaluate для GateState.
func For(gs models.GateState) Capability {
	return Evaluate(gs.Status, gs.IsPaid)
}

// CanMessage reports whether new chat messages may be sent.
func (c Capability) CanMessage() bool { return c == Open }

// CanVideo reports whether a video call may be started.
func (c Capability) CanVideo() bool { return c == Open }

// CanEditNotes reports whether session notes may be created or edited.
func (c Capability) CanEditNotes() bool { return c == Open }

// CanViewHistory reports whether prior messages and notes remain viewable.
func (c Capability) CanViewHistory() bool { return c == Open || c == ReadOnly }

// DenyMessage returns nil when messaging is allowed, otherwise the typed
// error for this capability so the UI can show the matching affordance
// ("payment required" vs "session completed" vs cancelled) instead of a
// generic failure.
func (c Capability) DenyMessage() error {
	switch c {
	case Open:
		return nil
	case Locked:
		return apperrors.PaymentRequired("appointment is not paid: messaging locked")
	case ReadOnly:
		return apperrors.SessionCompleted("session completed: messaging is read-only")
	default:
		return apperrors.SessionCancelled("appointment cancelled: messaging denied")
	}
}

// DenyNoteEdit — аналог DenyMessage для редагування нотаток.
func (c Capability) DenyNoteEdit() error {
	switch c {
	case Open:
		return nil
	case Locked:
		return apperrors.PaymentRequired("appointment is not paid: notes locked")
	case ReadOnly:
		return apperrors.SessionCompleted("session completed: notes are read-only")
	default:
		return apperrors.SessionCancelled("appointment cancelled: notes denied")
	}
}

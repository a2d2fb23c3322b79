package service

// Caller-facing error messages. These strings are part of the wire
// contract, so the handlers surface them verbatim.
const (
	MsgInvalidParams = "Paramètres invalides"
	MsgInvalidStatus = "Statut invalide"
	MsgTableRequired = "Table requise"
	MsgOrderNotFound = "Commande introuvable"
	MsgServerError   = "Erreur serveur"
)

// InvalidInputError marks malformed caller input. The message it carries
// is safe to return to the caller.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return e.Msg
}

func invalidInput(msg string) error {
	return &InvalidInputError{Msg: msg}
}

package delegating

// DelegateRequestRoute is the exn route a delegate posts to its
// delegator once witnessing is complete and it is ready for the
// delegator to anchor its event (spec.md §6).
const DelegateRequestRoute = "/delegate/request"

// DelegateRequestExn is the outbound peer exchange message: an exn
// with route DelegateRequestRoute, payload {delpre, aids?}, embedding
// {evt: <serialized-signed-event-bytes>}. CorrelationID is a fresh
// random identifier the sending sweep stamps on each request; nothing
// in this package logs or reads it.
type DelegateRequestExn struct {
	DelPre        string
	Aids          []string
	Evt           []byte
	CorrelationID string
}

// Notifier is the collaborator a delegate-request handler forwards a
// received request to, once it has extracted (src, delpre, evt, aids).
type Notifier interface {
	Notify(src, delpre string, evt []byte, aids []string) error
}

// HandleDelegateRequest implements the inbound side of
// DelegateRequestRoute: extract (src, delpre, evt, aids) from msg and
// forward to notifier. This is the delegator's handler, the mirror
// image of Anchorer.processPartialWitnessEscrow's outbound send on the
// delegate's side.
func HandleDelegateRequest(src string, msg DelegateRequestExn, notifier Notifier) error {
	return notifier.Notify(src, msg.DelPre, msg.Evt, msg.Aids)
}

//go:build !unix

package terminal

const defaultSessionKind = SessionTcell

func newANSISession(SessionOptions) (Session, error) {
	return nil, ErrUnsupported
}

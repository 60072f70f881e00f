// Package notice defines one-shot messages carried across a redirect to the next rendered page.
package notice

// Kind identifies what triggered a notice.
type Kind string

const (
	KindJustLoggedIn  Kind = "just_logged_in"
	KindLogoutSuccess Kind = "logout_success"
	KindSuccess       Kind = "success"
	KindError         Kind = "error"
)

// Notice is a transient message shown once by the page that receives it.
type Notice struct {
	Kind    Kind
	Message string
}

// JustLoggedIn is attached to the redirect after a successful login.
func JustLoggedIn(username string) Notice {
	return Notice{Kind: KindJustLoggedIn, Message: "Selamat datang, " + username + "!"}
}

// LogoutSuccess is attached to the redirect after a completed logout.
func LogoutSuccess() Notice {
	return Notice{Kind: KindLogoutSuccess, Message: "Anda berhasil logout. Sampai jumpa lagi!"}
}

// Success builds a generic success notice.
func Success(msg string) Notice { return Notice{Kind: KindSuccess, Message: msg} }

// Error builds a generic error notice.
func Error(msg string) Notice { return Notice{Kind: KindError, Message: msg} }

// Set is the notices delivered to one page render, indexed by kind.
type Set []Notice

// Has reports whether the set contains a notice of kind k.
func (s Set) Has(k Kind) bool {
	for _, n := range s {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Get returns the first notice of kind k.
func (s Set) Get(k Kind) (Notice, bool) {
	for _, n := range s {
		if n.Kind == k {
			return n, true
		}
	}
	return Notice{}, false
}

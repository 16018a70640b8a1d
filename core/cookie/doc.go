// Package cookie reads and writes HTTP cookies with optional signing and
// encryption.
//
// Values can be stored three ways:
//
//   - plain (Set/Get)
//   - signed with HMAC-SHA256 (SetSigned/GetSigned): readable by the client, tamper-evident
//   - encrypted with AES-256-GCM (SetEncrypted/GetEncrypted): opaque to the client
//
// Signing and encryption keys are derived from the configured secrets with
// HKDF. The first secret is used for new cookies; every secret is accepted
// when reading, so secrets can be rotated by prepending a new one.
//
// Writes go to anything with a Header method, which covers both
// http.ResponseWriter and *handler.Response:
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//
//	func login(req *handler.Request[S, C]) (*handler.Response, error) {
//		resp, _ := response.Redirect("/")
//		if err := m.SetSigned(resp, "uid", userID, cookie.WithMaxAge(3600)); err != nil {
//			return nil, err
//		}
//		return resp, nil
//	}
//
//	uid, err := m.GetSigned(req, "uid")
//
// Cookies default to Path "/", HttpOnly and SameSite=Lax, and are limited to
// 4KB including attributes.
package cookie

// Package session keeps per-client string data across requests.
//
// The session id travels in a signed cookie (see core/cookie); the data is
// stored server side, URL-encoded, in a Store. MemoryStore suits tests and
// single-node tools, RedisStore shares sessions between instances.
//
// # Usage
//
//	cookies, _ := cookie.New([]string{secret})
//	sessions, _ := session.New(session.NewMemoryStore(), cookies,
//		session.WithCookieName("simple_sid"),
//		session.WithTTL(5*time.Minute),
//	)
//	app.With(session.Middleware[*State, *ReqCtx](sessions))
//
//	app.At("/visits").Get(func(req *handler.Request[*State, *ReqCtx]) (*handler.Response, error) {
//		s := session.FromContext(req)
//		n, _ := strconv.Atoi(s.GetString("seen"))
//		s.Set("seen", strconv.Itoa(n+1))
//		return response.String(strconv.Itoa(n))
//	})
//
// Per-request contexts implementing Carrier receive the session as well, so
// handlers can use req.Ctx() instead of FromContext.
//
// # Persistence
//
// A session is written back only when it was modified and the handler
// succeeded. Destroy removes the stored data and expires the cookie;
// Regenerate moves the data to a new id. A missing, tampered or unknown
// cookie silently starts a new session.
package session

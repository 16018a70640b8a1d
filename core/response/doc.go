// Package response provides constructors for common handler results.
//
// Every constructor returns (*handler.Response, error) so a handler can
// return it directly:
//
//	func show(req *handler.Request[S, C]) (*handler.Response, error) {
//		user, err := load(req, req.Param("id"))
//		if err != nil {
//			return response.Error(err)
//		}
//		return response.JSON(user)
//	}
//
// Buffered bodies (String, HTML, Bytes, JSON, Form), redirects, streams
// (Stream, StreamJSON, SSE) and WebSocket upgrades are supported.
// JSONErrorHandler is an alternative to the router's plain-text error handler.
package response

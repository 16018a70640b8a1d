// Package testclient drives an http.Handler in-process for unit and
// integration tests.
//
//	c := testclient.New(app.MustBuild(), testclient.WithCookieJar())
//
//	resp, err := c.Post("/users").JSON(newUser).Send()
//	require.NoError(t, err)
//	assert.Equal(t, http.StatusCreated, resp.Status())
//
//	var got User
//	require.NoError(t, resp.JSON(&got))
//
// With a cookie jar, cookies set by responses (sessions, for instance) are
// sent back on later requests.
package testclient

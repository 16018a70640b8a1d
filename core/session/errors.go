package session

import "errors"

var (
	// ErrNotFound is returned by a Store when no data exists for an id.
	ErrNotFound = errors.New("session not found")
	// ErrNilStore is returned when creating a Manager without a store.
	ErrNilStore = errors.New("session store is required")
	// ErrNilCookieManager is returned when creating a Manager without a cookie manager.
	ErrNilCookieManager = errors.New("cookie manager is required")
	// ErrLoadSession is returned when reading a session from the store fails.
	ErrLoadSession = errors.New("failed to load session")
	// ErrSaveSession is returned when saving a session to the store fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession is returned when deleting a session from the store fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrFailedToParseRedisURL is returned when the Redis connection URL is malformed.
	ErrFailedToParseRedisURL = errors.New("failed to parse redis connection string")
	// ErrRedisNotReady is returned when Redis does not answer a ping in time.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")
)

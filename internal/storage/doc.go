// Package storage implements the durable key/value backends of the session store.
package storage

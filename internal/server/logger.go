package server

import "log"

// Logf is the package diagnostic logger. It defaults to log.Printf, which the
// command points at stderr since stdout carries the protocol.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

func (s *Server) debugf(format string, v ...interface{}) {
	if s.debug {
		Logf(format, v...)
	}
}

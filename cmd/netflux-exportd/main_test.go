package main

import "testing"

func TestListenAddr(t *testing.T) {
	if got := listenAddr("0.0.0.0", 9000); got != "0.0.0.0:9000" {
		t.Errorf("listenAddr = %q", got)
	}
}

func TestDefaultListenHostIsLoopback(t *testing.T) {
	if got := listenAddr(defaultListenHost, 8080); got != "127.0.0.1:8080" {
		t.Errorf("default listen address = %q, want loopback", got)
	}
}

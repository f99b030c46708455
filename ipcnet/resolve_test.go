package ipcnet

import "testing"

func TestResolveHostEmptyIsLoopback(t *testing.T) {
	ip, err := ResolveHost("")
	if err != nil {
		t.Fatal(err)
	}
	if ip != [4]byte{127, 0, 0, 1} {
		t.Fatalf("got %v, want loopback", ip)
	}
}

func TestResolveHostIPLiteral(t *testing.T) {
	ip, err := ResolveHost("192.168.1.5")
	if err != nil {
		t.Fatal(err)
	}
	if ip != [4]byte{192, 168, 1, 5} {
		t.Fatalf("got %v, want 192.168.1.5", ip)
	}
}

func TestResolveHostNameLookup(t *testing.T) {
	orig := resolveHost
	resolveHost = func(host string) ([]string, error) {
		if host != "sat-gateway" {
			t.Fatalf("unexpected lookup host %q", host)
		}
		return []string{"10.0.0.9"}, nil
	}
	defer func() { resolveHost = orig }()

	ip, err := ResolveHost("sat-gateway")
	if err != nil {
		t.Fatal(err)
	}
	if ip != [4]byte{10, 0, 0, 9} {
		t.Fatalf("got %v, want 10.0.0.9", ip)
	}
}

func TestResolveHostLookupFailure(t *testing.T) {
	orig := resolveHost
	resolveHost = func(string) ([]string, error) { return nil, errNotFound }
	defer func() { resolveHost = orig }()

	if _, err := ResolveHost("no-such-host"); err == nil {
		t.Fatal("expected lookup failure")
	}
}

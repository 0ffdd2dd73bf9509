package persist

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service type sketch servers advertise.
const ServiceType = "_scribble._tcp"

// Advertise announces a sketch server listening on port. instance defaults
// to the host name. Shut the returned server down to stop advertising.
func Advertise(instance string, port int) (*mdns.Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("advertise: hostname: %w", err)
		}
		instance = host
	}
	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"scribble sketch server"})
	if err != nil {
		return nil, fmt.Errorf("advertise: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("advertise: %w", err)
	}
	return server, nil
}

// Discover browses the local network for sketch servers until timeout and
// returns their base URLs.
func Discover(ctx context.Context, timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var found []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := make(map[string]bool)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			u := fmt.Sprintf("http://%s:%d", e.AddrV4.String(), e.Port)
			if !seen[u] {
				seen[u] = true
				found = append(found, u)
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		params.Timeout = time.Until(dl)
	}
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return found, fmt.Errorf("discover: %w", err)
	}
	return found, nil
}

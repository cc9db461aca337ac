package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Advertiser announces the gateway's services on the LAN.
type Advertiser interface {
	// AdvertiseGateway starts the gateway announcement. A repeated call
	// replaces the previous announcement.
	AdvertiseGateway(ctx context.Context, info *GatewayInfo) error

	// AdvertiseFTP announces the remote configuration server.
	AdvertiseFTP(ctx context.Context, instanceName string, port uint16) error

	// StopAll withdraws all announcements.
	StopAll()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL. Default: DefaultTTL.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       DefaultTTL,
	}
}

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu sync.Mutex

	gatewayServer *zeroconf.Server
	ftpServer     *zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	return &MDNSAdvertiser{config: config}, nil
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

func (a *MDNSAdvertiser) serverOptions() []zeroconf.ServerOption {
	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}
	return opts
}

// AdvertiseGateway starts the gateway announcement.
func (a *MDNSAdvertiser) AdvertiseGateway(ctx context.Context, info *GatewayInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.gatewayServer != nil {
		a.gatewayServer.Shutdown()
		a.gatewayServer = nil
	}

	txtStrings := TXTRecordsToStrings(EncodeGatewayTXT(info))

	port := int(info.Port)
	if port == 0 {
		port = DefaultFTPPort
	}

	server, err := zeroconf.Register(
		info.Callsign,
		ServiceTypeGateway,
		Domain,
		port,
		txtStrings,
		a.getInterfaces(),
		a.serverOptions()...,
	)
	if err != nil {
		return fmt.Errorf("failed to register gateway service: %w", err)
	}

	a.gatewayServer = server
	return nil
}

// AdvertiseFTP announces the remote configuration server.
func (a *MDNSAdvertiser) AdvertiseFTP(ctx context.Context, instanceName string, port uint16) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ftpServer != nil {
		a.ftpServer.Shutdown()
		a.ftpServer = nil
	}

	if port == 0 {
		port = DefaultFTPPort
	}

	server, err := zeroconf.Register(
		instanceName,
		ServiceTypeFTP,
		Domain,
		int(port),
		nil,
		a.getInterfaces(),
		a.serverOptions()...,
	)
	if err != nil {
		return fmt.Errorf("failed to register ftp service: %w", err)
	}

	a.ftpServer = server
	return nil
}

// StopAll withdraws all announcements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.gatewayServer != nil {
		a.gatewayServer.Shutdown()
		a.gatewayServer = nil
	}
	if a.ftpServer != nil {
		a.ftpServer.Shutdown()
		a.ftpServer = nil
	}
}

// Browser finds other gateways on the network.
type Browser interface {
	// BrowseGateways searches for gateways. The channel is closed when
	// ctx is cancelled.
	BrowseGateways(ctx context.Context) (<-chan *GatewayService, error)

	// FindByCallsign searches for a specific gateway.
	FindByCallsign(ctx context.Context, callsign string) (*GatewayService, error)
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) (*MDNSBrowser, error) {
	return &MDNSBrowser{config: config}, nil
}

// BrowseGateways searches for gateways on the network. Services are
// aggregated by instance name - addresses from multiple interfaces are
// combined into a single entry.
func (b *MDNSBrowser) BrowseGateways(ctx context.Context) (<-chan *GatewayService, error) {
	out := make(chan *GatewayService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func() {
		defer close(out)

		// Track services by instance name, aggregating addresses.
		services := make(map[string]*GatewayService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := entryToGateway(entry)
				if svc == nil {
					continue
				}

				existing, found := services[svc.InstanceName]
				if found {
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
				} else {
					services[svc.InstanceName] = svc
					select {
					case out <- svc:
					case <-ctx.Done():
						return
					}
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				if existing, found := services[entry.Instance]; found {
					existing.Addresses = removeAddresses(existing.Addresses, entry)
					if len(existing.Addresses) == 0 {
						delete(services, entry.Instance)
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceTypeGateway, Domain, entries, removed, opts...)
	}()

	return out, nil
}

// FindByCallsign searches for a specific gateway.
func (b *MDNSBrowser) FindByCallsign(ctx context.Context, callsign string) (*GatewayService, error) {
	results, err := b.BrowseGateways(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case svc, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if svc.Callsign == callsign {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToGateway converts a zeroconf entry to a GatewayService.
func entryToGateway(entry *zeroconf.ServiceEntry) *GatewayService {
	txt := StringsToTXTRecords(entry.Text)
	info, err := DecodeGatewayTXT(txt)
	if err != nil {
		return nil
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &GatewayService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addrs,
		Callsign:     info.Callsign,
		Version:      info.Version,
		Frequency:    info.Frequency,
	}
}

// mergeAddresses adds new addresses to the existing list, avoiding
// duplicates.
func mergeAddresses(existing, fresh []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range fresh {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the addresses of a withdrawn zeroconf entry
// from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)

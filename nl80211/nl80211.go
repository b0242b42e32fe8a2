// Package nl80211 reads adapters and the associated access point straight
// from the kernel over generic netlink, without going through nmcli.
package nl80211

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mdwifi "github.com/mdlayher/wifi"
	"go.uber.org/zap"

	"wifiscan/wifi"
)

var (
	ErrInterfaceNotFound = errors.New("wireless interface not found")
	ErrNotAssociated     = errors.New("interface is not associated")
)

// conn is the subset of *mdwifi.Client used here.
type conn interface {
	Interfaces() ([]*mdwifi.Interface, error)
	BSS(ifi *mdwifi.Interface) (*mdwifi.BSS, error)
	Close() error
}

// Client opens a short-lived netlink connection for each query.
type Client struct {
	logger *zap.Logger
	dial   func() (conn, error)
}

func New(logger *zap.Logger) *Client {
	return &Client{
		logger: logger,
		dial: func() (conn, error) {
			return mdwifi.New()
		},
	}
}

func (c *Client) withConn(ctx context.Context, fn func(conn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nc, err := c.dial()
	if err != nil {
		return fmt.Errorf("open nl80211 connection: %w", err)
	}
	defer func() {
		if cerr := nc.Close(); cerr != nil {
			c.logger.Debug("closing nl80211 connection", zap.Error(cerr))
		}
	}()
	return fn(nc)
}

func stations(ifis []*mdwifi.Interface) []*mdwifi.Interface {
	var out []*mdwifi.Interface
	for _, ifi := range ifis {
		// P2P devices have no netdev name and are not scannable.
		if ifi.Name == "" || ifi.Type != mdwifi.InterfaceTypeStation {
			continue
		}
		out = append(out, ifi)
	}
	return out
}

// WifiAdapters lists station-mode interfaces, or the wifi.NoAdapters
// placeholder when there are none.
func (c *Client) WifiAdapters(ctx context.Context) ([]string, error) {
	var names []string
	err := c.withConn(ctx, func(nc conn) error {
		ifis, err := nc.Interfaces()
		if err != nil {
			return fmt.Errorf("list interfaces: %w", err)
		}
		for _, ifi := range stations(ifis) {
			names = append(names, ifi.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wifi.AdaptersOrPlaceholder(names), nil
}

// ActiveBSSID returns the BSSID of the access point interfaceName is
// associated with, formatted like nmcli (upper-case hex). An empty name
// uses the first station interface.
func (c *Client) ActiveBSSID(ctx context.Context, interfaceName string) (string, error) {
	var bssid string
	err := c.withConn(ctx, func(nc conn) error {
		ifis, err := nc.Interfaces()
		if err != nil {
			return fmt.Errorf("list interfaces: %w", err)
		}
		ifi := pick(stations(ifis), interfaceName)
		if ifi == nil {
			return fmt.Errorf("%w: %q", ErrInterfaceNotFound, interfaceName)
		}
		bss, err := nc.BSS(ifi)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNotAssociated, ifi.Name, err)
		}
		if bss == nil || len(bss.BSSID) == 0 {
			return fmt.Errorf("%w: %s", ErrNotAssociated, ifi.Name)
		}
		bssid = strings.ToUpper(bss.BSSID.String())
		return nil
	})
	return bssid, err
}

func pick(ifis []*mdwifi.Interface, name string) *mdwifi.Interface {
	for _, ifi := range ifis {
		if name == "" || ifi.Name == name {
			return ifi
		}
	}
	return nil
}

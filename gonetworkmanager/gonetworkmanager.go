// wifiscan/gonetworkmanager/gonetworkmanager.go
package gonetworkmanager

import (
	"bufio" // For DeviceStatus parsing
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv" // For parseDeviceState
	"strings"

	"go.uber.org/zap"

	"wifiscan/wifi"
)

// --- Constants for nmcli field names ---
const (
	NmcliFieldWifiBSSID          = "BSSID"
	NmcliFieldWifiSignal         = "SIGNAL"
	NmcliFieldWifiChannel        = "CHAN"
	NmcliFieldWifiFrequency      = "FREQ"
	NmcliFieldWifiSecurity       = "SECURITY"
	NmcliFieldWifiSSID           = "SSID"
	NmcliFieldWifiActive         = "ACTIVE"
	NmcliFieldDeviceStatusDevice = "DEVICE"
	NmcliFieldDeviceStatusType   = "TYPE"
	NmcliFieldDeviceStatusState  = "STATE"
	NmcliFieldDeviceStatusConn   = "CONNECTION"

	nmcliBinary        = "nmcli"
	nmcliDefaultPath   = "/usr/bin/nmcli"
	activeMarker       = "yes"
	deviceTypeWifi     = "wifi"
	deviceTypeP2P      = "p2p"
	emptyConnectionVal = "--"
)

var (
	ErrNmcliNotFound   = errors.New("'nmcli' is not installed or not found in PATH")
	ErrCommandFailed   = errors.New("nmcli command failed")
	ErrEmptyInterface  = errors.New("interface name cannot be empty")
	ErrNoActiveNetwork = errors.New("no active Wi-Fi network")
)

// scanFields is the column order the wifi parser expects.
var scanFields = []string{
	NmcliFieldWifiBSSID, NmcliFieldWifiSignal, NmcliFieldWifiChannel,
	NmcliFieldWifiFrequency, NmcliFieldWifiSecurity, NmcliFieldWifiSSID,
}

// --- Type Definitions ---
type DeviceOverallStatus struct {
	Device     string `json:"device"`
	Type       string `json:"type"`
	State      string `json:"state"`
	Connection string `json:"connection,omitempty"`
}

// Runner executes nmcli with the given arguments and returns its stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, args ...string) (string, error)

func (f RunnerFunc) Run(ctx context.Context, args ...string) (string, error) { return f(ctx, args...) }

// Client issues nmcli queries.
type Client struct {
	runner Runner
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the process runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// New returns a Client that shells out to nmcli.
func New(logger *zap.Logger, opts ...Option) *Client {
	c := &Client{logger: logger}
	c.runner = &execRunner{binary: nmcliBinary, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Core nmcli Interaction ---
type execRunner struct {
	binary string
	logger *zap.Logger
}

func (r *execRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	r.logger.Debug("executing nmcli command", zap.Strings("args", cmd.Args))

	err := cmd.Run()
	joined := strings.Join(args, " ")
	stderrStr := strings.TrimSpace(stderr.String())
	// Keep trailing spaces: the last field of a line may be an SSID.
	stdoutStr := strings.TrimRight(stdout.String(), "\r\n")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", ErrNmcliNotFound, err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if stderrStr != "" {
				r.logger.Debug("nmcli stderr", zap.String("args", joined), zap.String("stderr", stderrStr))
				return stdoutStr, fmt.Errorf("%w: '%s' exited %d: %s", ErrCommandFailed, joined, exitErr.ExitCode(), stderrStr)
			}
			return stdoutStr, fmt.Errorf("%w: '%s' exited %d", ErrCommandFailed, joined, exitErr.ExitCode())
		}
		return stdoutStr, fmt.Errorf("%w: '%s': %w", ErrCommandFailed, joined, err)
	}
	if stderrStr != "" {
		r.logger.Warn("nmcli succeeded but produced stderr",
			zap.String("args", joined), zap.String("stderr", stderrStr))
	}
	return stdoutStr, nil
}

// CheckAvailable reports whether nmcli can be run on this host.
func (c *Client) CheckAvailable(ctx context.Context) error {
	// Check common location first
	if _, err := os.Stat(nmcliDefaultPath); err == nil {
		return nil
	}
	if _, err := c.runner.Run(ctx, "--version"); err != nil {
		return fmt.Errorf("%w: %w", ErrNmcliNotFound, err)
	}
	return nil
}

// --- Wi-Fi ---

// WifiList returns the raw terse scan listing for one interface, one access
// point per line in BSSID,SIGNAL,CHAN,FREQ,SECURITY,SSID order.
func (c *Client) WifiList(ctx context.Context, interfaceName string) (string, error) {
	if strings.TrimSpace(interfaceName) == "" {
		return "", ErrEmptyInterface
	}
	out, err := c.runner.Run(ctx, "-t", "-f", strings.Join(scanFields, ","),
		"device", "wifi", "list", "ifname", interfaceName)
	if err != nil {
		return "", fmt.Errorf("failed to list Wi-Fi networks on %s: %w", interfaceName, err)
	}
	return out, nil
}

// ActiveBSSID returns the BSSID nmcli marks as ACTIVE. An empty
// interfaceName queries every Wi-Fi device.
func (c *Client) ActiveBSSID(ctx context.Context, interfaceName string) (string, error) {
	args := []string{"-t", "-f", NmcliFieldWifiBSSID + "," + NmcliFieldWifiActive, "device", "wifi", "list"}
	if strings.TrimSpace(interfaceName) != "" {
		args = append(args, "ifname", interfaceName)
	}
	out, err := c.runner.Run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to query active BSSID: %w", err)
	}
	if bssid, ok := parseActiveBSSID(out); ok {
		return bssid, nil
	}
	return "", ErrNoActiveNetwork
}

func parseActiveBSSID(output string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		parts := wifi.SplitEscaped(scanner.Text())
		if len(parts) >= 2 && strings.TrimSpace(parts[len(parts)-1]) == activeMarker {
			return parts[0], true
		}
	}
	return "", false
}

var deviceStateMap = map[int]string{
	0: "unknown", 10: "unmanaged", 20: "unavailable", 30: "disconnected", 40: "prepare", 50: "config",
	60: "need-auth", 70: "ip-config", 80: "ip-check", 90: "secondaries", 100: "activated",
	110: "deactivating", 120: "failed",
}

func parseDeviceState(stateStr string) string {
	stateStr = strings.TrimSpace(stateStr)
	if stateStr == "" {
		return "unknown"
	}
	if strings.Contains(stateStr, "(") && strings.HasSuffix(stateStr, ")") {
		openParenIndex := strings.Index(stateStr, "(")
		if openParenIndex > 0 {
			potentialCodeStr := strings.TrimSpace(stateStr[:openParenIndex])
			if _, err := strconv.Atoi(potentialCodeStr); err == nil {
				return strings.TrimSpace(strings.TrimSuffix(stateStr[openParenIndex+1:], ")"))
			}
		}
	}
	if code, err := strconv.Atoi(stateStr); err == nil {
		if desc, ok := deviceStateMap[code]; ok {
			return desc
		}
		return fmt.Sprintf("Unknown code (%d)", code)
	}
	return stateStr
}

// DeviceStatus gets the status of all network devices.
func (c *Client) DeviceStatus(ctx context.Context) ([]DeviceOverallStatus, error) {
	output, err := c.runner.Run(ctx, "-t", "-f", fmt.Sprintf("%s,%s,%s,%s",
		NmcliFieldDeviceStatusDevice, NmcliFieldDeviceStatusType,
		NmcliFieldDeviceStatusState, NmcliFieldDeviceStatusConn), "device")
	if err != nil {
		return nil, fmt.Errorf("failed to get device status: %w", err)
	}
	var statuses []DeviceOverallStatus
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		parts := wifi.SplitFields(scanner.Text())
		if len(parts) < 3 {
			continue
		}
		status := DeviceOverallStatus{
			Device: strings.TrimSpace(parts[0]),
			Type:   strings.TrimSpace(parts[1]),
			State:  parseDeviceState(parts[2]),
		}
		if len(parts) > 3 {
			if connection := strings.TrimSpace(strings.Join(parts[3:], ":")); connection != "" && connection != emptyConnectionVal {
				status.Connection = connection
			}
		}
		statuses = append(statuses, status)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading device status output: %w", err)
	}
	return statuses, nil
}

// WifiAdapters lists Wi-Fi devices that can scan, skipping the Wi-Fi Direct
// pseudo-devices. An empty result is reported as the wifi.NoAdapters
// placeholder.
func (c *Client) WifiAdapters(ctx context.Context) ([]string, error) {
	statuses, err := c.DeviceStatus(ctx)
	if err != nil {
		return nil, err
	}
	var adapters []string
	for _, s := range statuses {
		typ := strings.ToLower(s.Type)
		if !strings.Contains(typ, deviceTypeWifi) {
			continue
		}
		if strings.Contains(typ, deviceTypeP2P) || strings.Contains(strings.ToLower(s.Device), deviceTypeP2P) {
			continue
		}
		c.logger.Debug("found Wi-Fi adapter", zap.String("device", s.Device), zap.String("state", s.State))
		adapters = append(adapters, s.Device)
	}
	return wifi.AdaptersOrPlaceholder(adapters), nil
}

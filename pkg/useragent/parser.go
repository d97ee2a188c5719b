package useragent

import (
	"fmt"
	"os"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	Unknown       = "unknown"
)

// Parser wraps the User-Agent parser with enhanced device type detection.
// Без uaparser работает на простых эвристиках по подстрокам.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo represents parsed device information
type DeviceInfo struct {
	DeviceType string // mobile, desktop, tablet, bot, unknown
	Browser    string // Chrome, Firefox, Safari, etc.
	OS         string // Windows, iOS, Android, etc.
}

// NewParser creates a parser from a regexes file. Empty path uses the definitions bundled with uap-go.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	if regexFilePath == "" {
		log.Info("User-Agent parser initialized with bundled regexes")
		return &Parser{parser: uaparser.NewFromSaved(), log: log}, nil
	}

	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file %s: %w", regexFilePath, err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized successfully", zap.String("regexes_file", regexFilePath))

	return &Parser{
		parser: parser,
		log:    log,
	}, nil
}

// NewFallback возвращает парсер только на эвристиках
func NewFallback(log *zap.Logger) *Parser {
	return &Parser{log: log}
}

// ParseUserAgent parses a User-Agent string and returns detailed device information
func (p *Parser) ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{DeviceType: Unknown, Browser: Unknown, OS: Unknown}
	}

	if p.parser == nil {
		return DeviceInfo{DeviceType: fallbackDeviceType(userAgent), Browser: Unknown, OS: Unknown}
	}

	client := p.parser.Parse(userAgent)

	info := DeviceInfo{
		DeviceType: p.determineDeviceType(client, userAgent),
		Browser:    formatString(client.UserAgent.Family),
		OS:         formatString(client.Os.Family),
	}

	p.log.Debug("parsed User-Agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS),
	)

	return info
}

// determineDeviceType determines the device type based on parsed client info and raw User-Agent
func (p *Parser) determineDeviceType(client *uaparser.Client, userAgent string) string {
	if isBot(client.UserAgent.Family, userAgent) || client.Device.Family == "Spider" {
		return DeviceBot
	}

	// Check if device family indicates mobile/tablet
	deviceFamily := client.Device.Family
	if deviceFamily != "" && deviceFamily != "Other" {
		if containsAny(deviceFamily, tabletDevices) {
			return DeviceTablet
		}
		if containsAny(deviceFamily, mobileDevices) {
			return DeviceMobile
		}
	}

	osFamily := client.Os.Family
	if containsAny(osFamily, mobileOS) {
		if isTabletOS(osFamily, userAgent) {
			return DeviceTablet
		}
		return DeviceMobile
	}

	if containsAny(osFamily, desktopOS) {
		return DeviceDesktop
	}

	return Unknown
}

var (
	botIndicators = []string{
		"Googlebot", "Bingbot", "Slurp", "DuckDuckBot", "Baiduspider",
		"YandexBot", "facebookexternalhit", "Twitterbot", "LinkedInBot",
		"TelegramBot", "SkypeUriPreview", "bot", "crawler", "spider", "scraper",
	}
	mobileDevices = []string{"iPhone", "Android", "BlackBerry", "Windows Phone", "Mobile", "Phone"}
	tabletDevices = []string{"iPad", "Tablet", "Kindle", "Surface"}
	mobileOS      = []string{"iOS", "Android", "Windows Phone", "BlackBerry OS", "Firefox OS", "Sailfish OS"}
	desktopOS     = []string{
		"Windows", "Mac OS X", "macOS", "Linux", "Ubuntu",
		"Chrome OS", "FreeBSD", "OpenBSD", "NetBSD",
	}
)

func isBot(uaFamily, userAgent string) bool {
	return containsAny(uaFamily, botIndicators) || containsAny(userAgent, botIndicators)
}

// isTabletOS отличает планшет от телефона на мобильной ОС
func isTabletOS(osFamily, userAgent string) bool {
	if containsFold(osFamily, "iOS") {
		return containsFold(userAgent, "iPad")
	}
	// Android tablets typically don't have "Mobile" in User-Agent
	if containsFold(osFamily, "Android") {
		return !containsFold(userAgent, "Mobile")
	}
	return false
}

// fallbackDeviceType определяет тип устройства без регулярных выражений uap-go
func fallbackDeviceType(ua string) string {
	switch {
	case containsAny(ua, botIndicators):
		return DeviceBot
	case containsFold(ua, "iPad") || containsFold(ua, "Tablet"):
		return DeviceTablet
	case containsFold(ua, "Mobile") || containsFold(ua, "Android") || containsFold(ua, "iPhone"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// formatString formats a string, replacing empty with "unknown"
func formatString(s string) string {
	if s == "" || s == "Other" {
		return Unknown
	}
	return s
}

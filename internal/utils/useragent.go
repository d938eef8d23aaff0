package utils

import (
	ua "github.com/mssola/user_agent"
)

// ClientInfo is the part of a User-Agent worth putting in a request log
type ClientInfo struct {
	Browser string
	OS      string
	Mobile  bool
	Bot     bool
}

// String renders the client as "browser/os", e.g. "Chrome/Android 13"
func (c ClientInfo) String() string {
	return c.Browser + "/" + c.OS
}

// ParseUserAgent extracts browser and OS from a User-Agent header
func ParseUserAgent(userAgent string) ClientInfo {
	if userAgent == "" {
		return ClientInfo{Browser: "Unknown", OS: "Unknown"}
	}

	parser := ua.New(userAgent)

	info := ClientInfo{
		Browser: "Unknown",
		OS:      "Unknown",
		Mobile:  parser.Mobile(),
		Bot:     parser.Bot(),
	}

	if name, _ := parser.Browser(); name != "" {
		info.Browser = name
	}

	osInfo := parser.OSInfo()
	if osInfo.Name != "" {
		info.OS = osInfo.Name
		if osInfo.Version != "" {
			info.OS += " " + osInfo.Version
		}
	}

	return info
}

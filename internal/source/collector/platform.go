package collector

import "strings"

const PlatformAuto = "auto"

var platformHosts = []struct {
	platform string
	hosts    []string
}{
	{"douyin", []string{"douyin.com", "iesdouyin.com"}},
	{"tiktok", []string{"tiktok.com"}},
	{"xiaohongshu", []string{"xiaohongshu.com", "xhslink.com"}},
	{"bilibili", []string{"bilibili.com", "b23.tv"}},
	{"youtube", []string{"youtube.com", "youtu.be"}},
}

// DetectPlatform guesses the platform from a share or profile URL.
// It returns "" when no known host matches.
func DetectPlatform(rawURL string) string {
	lowerURL := strings.ToLower(rawURL)
	for _, p := range platformHosts {
		for _, host := range p.hosts {
			if strings.Contains(lowerURL, host) {
				return p.platform
			}
		}
	}
	return ""
}

package cache

import "fmt"

func InsightKey(datasetHash string) string {
	return fmt.Sprintf("insight:%s", datasetHash)
}

func RateLimitKey(clientIP string) string {
	return fmt.Sprintf("ratelimit:%s", clientIP)
}

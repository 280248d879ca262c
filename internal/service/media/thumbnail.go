// Package media 缩略图相关的实现
package media

import (
	"fmt"
	"html"
)

// 缩略图占位图的固定尺寸
const (
	thumbnailWidth  = 320
	thumbnailHeight = 180
)

// ThumbnailContentType 视频占位缩略图的MIME类型
const ThumbnailContentType = "image/svg+xml"

// VideoThumbnailSVG 生成视频的占位缩略图
// 不做真实的视频抽帧，返回一张固定尺寸的SVG，中间渲染文件名文本
// 同一文件名的输出是确定的，每次请求重新生成，不做缓存
func VideoThumbnailSVG(fileName string) []byte {
	escaped := html.EscapeString(fileName)

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#2d2d2d"/>`+
		`<polygon points="140,65 140,115 185,90" fill="#ffffff" opacity="0.85"/>`+
		`<text x="50%%" y="155" font-family="sans-serif" font-size="14" fill="#ffffff" text-anchor="middle">%s</text>`+
		`</svg>`,
		thumbnailWidth, thumbnailHeight, thumbnailWidth, thumbnailHeight, escaped)

	return []byte(svg)
}

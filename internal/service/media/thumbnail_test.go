package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVideoThumbnailSVG 测试视频占位缩略图生成
func TestVideoThumbnailSVG(t *testing.T) {
	t.Run("包含文件名和固定尺寸", func(t *testing.T) {
		svg := string(VideoThumbnailSVG("ceremony.mp4"))
		assert.True(t, strings.HasPrefix(svg, "<svg"))
		assert.Contains(t, svg, "ceremony.mp4")
		assert.Contains(t, svg, `width="320"`)
		assert.Contains(t, svg, `height="180"`)
	})

	t.Run("文件名中的HTML特殊字符被转义", func(t *testing.T) {
		svg := string(VideoThumbnailSVG(`<script>"a&b".mp4`))
		assert.NotContains(t, svg, "<script>")
		assert.Contains(t, svg, "&lt;script&gt;")
		assert.Contains(t, svg, "&amp;")
	})

	t.Run("同一文件名输出确定", func(t *testing.T) {
		first := VideoThumbnailSVG("first-dance.mov")
		second := VideoThumbnailSVG("first-dance.mov")
		assert.Equal(t, first, second)
	})
}

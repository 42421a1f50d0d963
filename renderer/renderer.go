package renderer

import "github.com/ByLCY/spanlayout/label"

// Renderer 将排好版的标签文档输出为最终文件，例如 PDF 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(doc *label.Document) ([]byte, error)
}

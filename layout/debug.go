package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将任意布局结果（Packed、Result 或上层文档）输出为 JSON，便于调试或可视化。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("layout: encode debug json: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

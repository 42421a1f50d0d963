package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLabel = `label Ticket v1 {
  resources {
    color Ink = #222
    style Default {
      size: 9pt
    }
  }
  page 60mm 20mm margin 2mm {
    box Title height 8mm align center {
      span bold true color Ink { "${title|Untitled}" }
    }
  }
}
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ticket.label")
	if err := os.WriteFile(path, []byte(sampleLabel), 0o644); err != nil {
		t.Fatalf("写入示例文件失败: %v", err)
	}
	return path
}

func TestRunPDF(t *testing.T) {
	in := writeSample(t)
	dir := t.TempDir()
	cfg := config{
		input:   in,
		output:  filepath.Join(dir, "out", "ticket.pdf"),
		debug:   filepath.Join(dir, "debug", "ticket.json"),
		data:    map[string]any{"title": "Gate 7"},
		metrics: "canvas",
		scale:   1,
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run 失败: %v", err)
	}

	pdf, err := os.ReadFile(cfg.output)
	if err != nil {
		t.Fatalf("读取 PDF 失败: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF：%q", pdf[:min(len(pdf), 8)])
	}

	raw, err := os.ReadFile(cfg.debug)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if !strings.Contains(string(raw), "Gate") {
		t.Fatalf("调试 JSON 中缺少绑定后的文本")
	}
}

func TestRunPNGWithOpenTypeMetrics(t *testing.T) {
	in := writeSample(t)
	cfg := config{
		input:   in,
		output:  filepath.Join(t.TempDir(), "ticket.png"),
		metrics: "opentype",
		scale:   1,
		dpi:     254,
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run 失败: %v", err)
	}
	f, err := os.Open(cfg.output)
	if err != nil {
		t.Fatalf("打开 PNG 失败: %v", err)
	}
	defer f.Close()
	img, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("PNG 解码失败: %v", err)
	}
	if img.Width != 600 || img.Height != 200 {
		t.Fatalf("PNG 尺寸错误: %dx%d", img.Width, img.Height)
	}
}

func TestRunErrors(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(t.TempDir(), "x.pdf")
	cases := []config{
		{input: filepath.Join(t.TempDir(), "missing.label"), output: out},
		{input: in, output: out, metrics: "harfbuzz"},
		{input: in, output: out, format: "svg"},
	}
	for _, cfg := range cases {
		if err := run(cfg); err == nil {
			t.Fatalf("期望 %+v 返回错误", cfg)
		}
	}
}

func TestOutputFormat(t *testing.T) {
	cases := map[config]string{
		{output: "a.pdf"}:                "pdf",
		{output: "a.PNG"}:                "png",
		{output: "a.bin"}:                "pdf",
		{output: "a.pdf", format: "PNG"}: "png",
	}
	for cfg, want := range cases {
		if got := outputFormat(cfg); got != want {
			t.Fatalf("outputFormat(%q, %q) = %s，期望 %s", cfg.output, cfg.format, got, want)
		}
	}
}

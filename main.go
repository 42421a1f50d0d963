package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/spanlayout/dsl"
	"github.com/ByLCY/spanlayout/label"
	"github.com/ByLCY/spanlayout/layout"
	"github.com/ByLCY/spanlayout/metrics"
	"github.com/ByLCY/spanlayout/renderer"
	canvasrenderer "github.com/ByLCY/spanlayout/renderer/canvas"
	rasterrenderer "github.com/ByLCY/spanlayout/renderer/raster"
)

// config 汇总命令行参数。
type config struct {
	input   string
	output  string
	debug   string
	data    any
	metrics string
	format  string
	scale   float64
	dpi     float64
	outline bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "examples/badge.label", "标签 DSL 文件路径")
	flag.StringVar(&cfg.output, "out", "output/badge.pdf", "输出路径（.pdf 或 .png）")
	flag.StringVar(&cfg.debug, "debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	flag.StringVar(&cfg.metrics, "metrics", "canvas", "字体度量后端：canvas 或 opentype")
	flag.StringVar(&cfg.format, "format", "", "输出格式 pdf 或 png，默认按 -out 扩展名推断")
	flag.Float64Var(&cfg.scale, "scale", 1, "字号缩放系数（显示密度）")
	flag.Float64Var(&cfg.dpi, "dpi", rasterrenderer.DefaultDPI, "PNG 输出分辨率")
	flag.BoolVar(&cfg.outline, "outline", false, "绘制 box 边框，便于调试")
	verbose := flag.Bool("v", false, "输出排版调试日志")
	flag.Parse()

	if *verbose {
		layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &cfg.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(cfg); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Printf("已生成：%s\n", cfg.output)
}

// run 串联解析、排版与渲染。
func run(cfg config) error {
	file, err := os.Open(cfg.input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", cfg.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	baseDir := filepath.Dir(cfg.input)
	pdfRenderer := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: baseDir, Outline: cfg.outline})
	m, closeMetrics, err := newMetrics(cfg.metrics, baseDir, pdfRenderer)
	if err != nil {
		return err
	}
	defer closeMetrics()

	result, err := label.Build(doc, cfg.data, label.BuildOptions{Metrics: m, Scale: cfg.scale})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.debug != "" {
		if err := writeDebug(result, cfg.debug); err != nil {
			return err
		}
	}

	var r renderer.Renderer = pdfRenderer
	switch format := outputFormat(cfg); format {
	case "pdf":
	case "png":
		raster, err := rasterrenderer.New(rasterrenderer.Options{DPI: cfg.dpi, BaseDir: baseDir, Outline: cfg.outline})
		if err != nil {
			return err
		}
		defer raster.Close()
		r = raster
	default:
		return fmt.Errorf("不支持的输出格式：%s", format)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(cfg.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// newMetrics 按名称选择度量后端；两者都以 mm 报告长度。
func newMetrics(name, baseDir string, canvasMetrics layout.Metrics) (layout.Metrics, func(), error) {
	switch strings.ToLower(name) {
	case "", "canvas":
		return canvasMetrics, func() {}, nil
	case "opentype":
		p, err := metrics.New(metrics.Options{DPI: metrics.DPIMM, BaseDir: baseDir})
		if err != nil {
			return nil, nil, err
		}
		return p, func() { p.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("未知的度量后端：%s（可选 canvas、opentype）", name)
	}
}

func outputFormat(cfg config) string {
	if cfg.format != "" {
		return strings.ToLower(cfg.format)
	}
	if strings.EqualFold(filepath.Ext(cfg.output), ".png") {
		return "png"
	}
	return "pdf"
}

func writeDebug(doc *label.Document, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(doc, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"yashubustudio/pcadvisor/advisor"
)

// pcadvisor-cli runs the analysis pipeline without the desktop UI: it reads a
// spec table CSV, ranks the machines and prints or writes the result.
func main() {
	configPath := flag.String("config", "", "設定ファイル (既定: config.json)")
	input := flag.String("input", "", "PCスペックCSVのパス (必須)")
	preference := flag.Float64("preference", 0, "嗜好 (-1〜1, PC2軸の重み)")
	budget := flag.Float64("budget", 0, "予算上限 (円, 0で無制限)")
	output := flag.String("output", "", "ランキングCSVの出力先")
	toStdout := flag.Bool("stdout", true, "ランキングを標準出力へ表示する")
	top := flag.Int("top", 0, "表示する件数 (0で全件)")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	if *input == "" {
		flag.Usage()
		logger.Fatal("--input が指定されていません")
	}

	cfg, err := advisor.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("設定の読み込みに失敗しました: %v", err)
	}
	prefChanged := false
	budgetChanged := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "preference":
			prefChanged = true
		case "budget":
			budgetChanged = true
		}
	})
	if prefChanged {
		cfg.Preference = *preference
	}
	if budgetChanged {
		cfg.Budget = *budget
	}
	cfg.ApplyDefaults()

	ds, err := advisor.LoadTable(*input)
	if err != nil {
		logger.Fatalf("CSVの読み込みに失敗しました: %v", err)
	}

	svc := advisor.NewService(cfg, nil, logger)
	analysis, err := svc.SetDataset(ds)
	if err != nil {
		logger.Fatalf("分析に失敗しました: %v", err)
	}
	ranking, err := svc.Rank(cfg.Preference, cfg.Budget)
	if err != nil {
		logger.Fatalf("スコアリングに失敗しました: %v", err)
	}
	if *top > 0 && *top < len(ranking) {
		ranking = ranking[:*top]
	}

	if *toStdout {
		printRanking(analysis, ranking, cfg)
	}
	if *output != "" {
		if err := writeRankingCSV(*output, ranking); err != nil {
			logger.Fatalf("出力の書き込みに失敗しました: %v", err)
		}
		logger.Printf("ランキングを書き出しました: %s (%d件)", *output, len(ranking))
	}
}

func printRanking(analysis *advisor.Analysis, ranking []advisor.Recommendation, cfg advisor.Config) {
	proj := analysis.Projection
	fmt.Printf("PC1: %s (寄与率 %.1f%%)\n", analysis.AxisLabels[0], proj.ExplainedVariance[0]*100)
	fmt.Printf("PC2: %s (寄与率 %.1f%%)\n", analysis.AxisLabels[1], proj.ExplainedVariance[1]*100)
	if cfg.Budget > 0 {
		fmt.Printf("予算上限: %.0f円 / 嗜好: %+.2f\n", cfg.Budget, cfg.Preference)
	} else {
		fmt.Printf("予算上限: 無制限 / 嗜好: %+.2f\n", cfg.Preference)
	}
	fmt.Println()
	for i, rec := range ranking {
		mark := " "
		if !rec.InBudget {
			mark = "*"
		}
		fmt.Printf("%2d.%s %-30s %10.0f円  スコア %.3f\n", i+1, mark, rec.Machine.Name, rec.Machine.Price, rec.Score)
	}
	for _, rec := range ranking {
		if !rec.InBudget {
			fmt.Println("\n* は予算外のモデルです")
			break
		}
	}
}

func writeRankingCSV(path string, ranking []advisor.Recommendation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"rank", "model", "price", "score", "in_budget"}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i, rec := range ranking {
		row := []string{
			strconv.Itoa(i + 1),
			rec.Machine.Name,
			strconv.FormatFloat(rec.Machine.Price, 'g', -1, 64),
			strconv.FormatFloat(rec.Score, 'f', 6, 64),
			strconv.FormatBool(rec.InBudget),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

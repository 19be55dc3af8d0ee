package app

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"yashubustudio/pcadvisor/advisor"
)

const budgetUnlimited = 100 // top slider position, 万円

var (
	colorInBudget  = color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xcc}
	colorOutBudget = color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0x66}
	colorBest      = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xee}
)

type uiState struct {
	service *advisor.Service
	cfg     advisor.Config

	w      fyne.Window
	editor *editorState

	// analysis tab
	axisLabels [2]*widget.Label
	varLabels  [2]*widget.Label
	cumLabel   *widget.Label
	loadingTbl *widget.Table
	plot       *scatterPlot

	recName   *widget.Label
	recPrice  *widget.Label
	recSpecs  *widget.Label
	recScore  *widget.Label
	recPreset *widget.Label
	recAccent *canvas.Rectangle

	prefSlider  *widget.Slider
	prefLabel   *widget.Label
	budgetSlide *widget.Slider
	budgetLabel *widget.Label
	presetBtns  map[string]*widget.Button
	status      *widget.Label

	logBind    binding.String
	logCapture *logCapture

	mu       sync.Mutex
	analysis *advisor.Analysis
	ranking  []advisor.Recommendation

	currentPreset string
	lastPathFile  string

	yen *message.Printer
}

func newUIState(cfg advisor.Config) *uiState {
	u := &uiState{
		cfg:           cfg,
		currentPreset: cfg.Preset,
		yen:           message.NewPrinter(language.Japanese),
	}
	u.logBind = binding.NewString()
	u.logCapture = newLogCapture(u.logBind, 300)
	return u
}

func (u *uiState) buildUI(a fyne.App) {
	u.w = a.NewWindow("PC Advisor (コスパ分析)")
	u.w.Resize(fyne.NewSize(1280, 800))

	u.editor = newEditorState(u)
	editorTab := u.editor.build()
	analysisTab := u.buildAnalysisTab()

	tabs := container.NewAppTabs(
		container.NewTabItem("CSV管理", editorTab),
		container.NewTabItem("コスパ分析", analysisTab),
	)
	u.w.SetContent(tabs)
}

func (u *uiState) buildAnalysisTab() fyne.CanvasObject {
	analyzeBtn := widget.NewButton("このデータで分析", u.onAnalyze)
	reloadBtn := widget.NewButton("CSVを再読込", u.onReload)
	u.status = widget.NewLabel("準備完了")
	top := container.NewHBox(analyzeBtn, reloadBtn, u.status)

	left := u.buildInfoPanel()
	right := u.buildRecommendationPanel()

	u.plot = newScatterPlot()
	u.plot.OnTapped = u.onPlotTapped

	bottom := container.NewVBox(
		u.buildPresetRow(),
		u.buildSliderRow(),
	)

	logLabel := widget.NewLabelWithData(u.logBind)
	logLabel.Wrapping = fyne.TextWrapWord
	logScroll := container.NewVScroll(logLabel)
	logScroll.SetMinSize(fyne.NewSize(200, 90))

	// Paint the persisted persona's accent now that every control exists.
	u.setPreset(u.currentPreset)

	center := container.NewBorder(nil, nil, left, right, u.plot)
	return container.NewBorder(top, container.NewVBox(bottom, widget.NewLabel("ログ"), logScroll), nil, nil, center)
}

func (u *uiState) buildInfoPanel() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("主成分分析", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	for i := range u.axisLabels {
		u.axisLabels[i] = widget.NewLabel(fmt.Sprintf("PC%d: -", i+1))
		u.varLabels[i] = widget.NewLabel("寄与率: -")
	}
	u.cumLabel = widget.NewLabel("累積寄与率: -")

	dims := advisor.DefaultDimensions()
	u.loadingTbl = widget.NewTable(
		func() (int, int) { return u.loadingRowCount() + 1, 3 },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText([]string{"", "PC1", "PC2"}[id.Col])
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			u.mu.Lock()
			analysis := u.analysis
			u.mu.Unlock()
			row := id.Row - 1
			if analysis == nil {
				if id.Col == 0 && row < len(dims) {
					lbl.SetText(dims[row].Label)
				} else {
					lbl.SetText("-")
				}
				return
			}
			if row >= len(analysis.Projection.Dimensions) {
				lbl.SetText("")
				return
			}
			if id.Col == 0 {
				lbl.SetText(analysis.Projection.Dimensions[row].Label)
				return
			}
			lbl.SetText(fmt.Sprintf("%+.3f", analysis.Projection.Loadings[id.Col-1][row]))
		},
	)
	u.loadingTbl.SetColumnWidth(0, 60)
	u.loadingTbl.SetColumnWidth(1, 70)
	u.loadingTbl.SetColumnWidth(2, 70)

	tblScroll := container.NewVScroll(u.loadingTbl)
	tblScroll.SetMinSize(fyne.NewSize(210, 170))

	panel := container.NewVBox(
		title,
		u.axisLabels[0], u.varLabels[0],
		u.axisLabels[1], u.varLabels[1],
		u.cumLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("スペックの寄与度", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		tblScroll,
	)
	return panel
}

func (u *uiState) loadingRowCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.analysis != nil {
		return len(u.analysis.Projection.Dimensions)
	}
	return len(advisor.DefaultDimensions())
}

func (u *uiState) buildRecommendationPanel() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("あなたへの推奨PC", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	u.recName = widget.NewLabel("「このデータで分析」を実行してください")
	u.recName.Wrapping = fyne.TextWrapWord
	u.recPrice = widget.NewLabelWithStyle("―――", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	u.recSpecs = widget.NewLabel("")
	u.recScore = widget.NewLabel("適合スコア: ―")
	u.recPreset = widget.NewLabel(fmt.Sprintf("プリセット: %s", u.currentPreset))
	u.recAccent = canvas.NewRectangle(parseHexColor(""))
	u.recAccent.SetMinSize(fyne.NewSize(0, 4))

	panel := container.NewVBox(
		title,
		u.recAccent,
		u.recName,
		u.recPrice,
		u.recSpecs,
		u.recScore,
		widget.NewSeparator(),
		u.recPreset,
	)
	return panel
}

func (u *uiState) buildPresetRow() fyne.CanvasObject {
	u.presetBtns = make(map[string]*widget.Button, len(u.cfg.Presets))
	row := container.NewHBox(widget.NewLabel("プリセット:"))
	for _, preset := range u.cfg.Presets {
		p := preset
		btn := widget.NewButton(p.Name, func() { u.applyPreset(p) })
		u.presetBtns[p.Name] = btn
		swatch := canvas.NewRectangle(parseHexColor(p.Color))
		swatch.SetMinSize(fyne.NewSize(10, 10))
		row.Add(container.NewHBox(swatch, btn))
	}
	u.refreshPresetButtons()
	return row
}

// refreshPresetButtons highlights the active persona's button.
func (u *uiState) refreshPresetButtons() {
	for name, btn := range u.presetBtns {
		if name == u.currentPreset {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (u *uiState) buildSliderRow() fyne.CanvasObject {
	u.prefLabel = widget.NewLabel("")
	u.prefSlider = widget.NewSlider(-100, 100)
	u.prefSlider.Step = 1
	u.prefSlider.SetValue(u.cfg.Preference * 100)
	u.prefSlider.OnChanged = func(v float64) {
		u.setPreset(presetNameCustom)
		u.onControlsChanged()
	}

	u.budgetLabel = widget.NewLabel("")
	u.budgetSlide = widget.NewSlider(5, budgetUnlimited)
	u.budgetSlide.Step = 1
	if u.cfg.Budget > 0 {
		u.budgetSlide.SetValue(u.cfg.Budget / 10000)
	} else {
		u.budgetSlide.SetValue(budgetUnlimited)
	}
	u.budgetSlide.OnChanged = func(v float64) {
		u.onControlsChanged()
	}
	u.updateControlLabels()

	return container.NewVBox(
		container.NewBorder(nil, nil, u.prefLabel, nil, u.prefSlider),
		container.NewBorder(nil, nil, u.budgetLabel, nil, u.budgetSlide),
	)
}

func (u *uiState) preference() float64 {
	return u.prefSlider.Value / 100
}

// budget returns the price ceiling in yen; 0 means unlimited.
func (u *uiState) budget() float64 {
	v := u.budgetSlide.Value
	if v >= budgetUnlimited {
		return 0
	}
	return v * 10000
}

const presetNameCustom = "カスタム"

func (u *uiState) setPreset(name string) {
	u.currentPreset = name
	u.recPreset.SetText(fmt.Sprintf("プリセット: %s", name))
	accent := parseHexColor("")
	if p, ok := u.cfg.PresetByName(name); ok {
		accent = parseHexColor(p.Color)
	}
	u.recAccent.FillColor = accent
	u.recAccent.Refresh()
	u.refreshPresetButtons()
}

// parseHexColor decodes a #RRGGBB persona color; anything else falls back
// to a neutral grey.
func parseHexColor(s string) color.Color {
	grey := color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return grey
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return grey
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func (u *uiState) applyPreset(p advisor.Preset) {
	u.setPreset(p.Name)
	u.prefSlider.OnChanged = nil
	u.prefSlider.SetValue(p.Preference * 100)
	u.prefSlider.OnChanged = func(float64) {
		u.setPreset(presetNameCustom)
		u.onControlsChanged()
	}
	u.appendLog(fmt.Sprintf("プリセット適用: %s (%s)", p.Name, p.Description))
	u.onControlsChanged()
}

func (u *uiState) updateControlLabels() {
	axis2 := "PC2"
	u.mu.Lock()
	if u.analysis != nil {
		axis2 = u.analysis.AxisLabels[1]
	}
	u.mu.Unlock()
	u.prefLabel.SetText(fmt.Sprintf("嗜好 (%s): %+d%%", axis2, int(u.prefSlider.Value)))
	if b := u.budget(); b > 0 {
		u.budgetLabel.SetText(fmt.Sprintf("予算上限: %d万円", int(u.budgetSlide.Value)))
	} else {
		u.budgetLabel.SetText("予算上限: 無制限")
	}
}

// onAnalyze runs the full pipeline on the current editor table.
func (u *uiState) onAnalyze() {
	ds, err := u.editor.dataset()
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	analysis, err := u.service.SetDataset(ds)
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	u.mu.Lock()
	u.analysis = analysis
	u.mu.Unlock()
	u.refreshAnalysisPanels(analysis)
	u.onControlsChanged()
	u.status.SetText(fmt.Sprintf("分析完了 (%d台)", len(analysis.Dataset.Machines)))
}

func (u *uiState) onReload() {
	if u.editor.currentCSVPath == "" {
		dialog.ShowInformation("警告", "読み込むCSVファイルが見つかりません", u.w)
		return
	}
	u.loadCSV(u.editor.currentCSVPath)
}

// loadCSV loads a spec table into the editor, remembers the path, and
// re-runs the analysis.
func (u *uiState) loadCSV(path string) {
	ds, err := advisor.LoadTable(path)
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	u.editor.setDataset(ds)
	u.editor.setCurrentPath(path)
	if err := advisor.RememberPath(u.lastPathFile, path); err != nil {
		u.appendLog(fmt.Sprintf("前回パスの保存に失敗: %v", err))
	}
	u.appendLog(fmt.Sprintf("CSV読込: %s (%d件)", path, len(ds.Machines)))
	u.onAnalyze()
}

// onControlsChanged recomputes only the scoring step; the projection is
// reused untouched.
func (u *uiState) onControlsChanged() {
	u.updateControlLabels()
	u.mu.Lock()
	analysis := u.analysis
	u.mu.Unlock()
	if analysis == nil {
		return
	}
	ranking, err := u.service.Rank(u.preference(), u.budget())
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	u.mu.Lock()
	u.ranking = ranking
	u.mu.Unlock()
	u.refreshPlot(analysis, ranking)
	u.refreshRecommendation(ranking)
}

func (u *uiState) refreshAnalysisPanels(analysis *advisor.Analysis) {
	proj := analysis.Projection
	for i := 0; i < 2; i++ {
		u.axisLabels[i].SetText(fmt.Sprintf("PC%d: %s", i+1, analysis.AxisLabels[i]))
		u.varLabels[i].SetText(fmt.Sprintf("寄与率: %.1f%%", proj.ExplainedVariance[i]*100))
	}
	cum := (proj.ExplainedVariance[0] + proj.ExplainedVariance[1]) * 100
	u.cumLabel.SetText(fmt.Sprintf("累積寄与率: %.1f%%", cum))
	u.loadingTbl.Refresh()
}

func (u *uiState) refreshPlot(analysis *advisor.Analysis, ranking []advisor.Recommendation) {
	proj := analysis.Projection
	bestName := ""
	if len(ranking) > 0 {
		bestName = ranking[0].Machine.Name
	}
	budgetByName := make(map[string]bool, len(ranking))
	for _, rec := range ranking {
		budgetByName[rec.Machine.Name] = rec.InBudget
	}

	minOverall := proj.Overall[0]
	for _, v := range proj.Overall[1:] {
		minOverall = minFloat(minOverall, v)
	}
	marks := make([]plotMark, len(analysis.Dataset.Machines))
	for i, m := range analysis.Dataset.Machines {
		c := color.Color(colorInBudget)
		if !budgetByName[m.Name] {
			c = colorOutBudget
		}
		best := m.Name == bestName
		if best {
			c = colorBest
		}
		marks[i] = plotMark{
			X:      proj.PC1[i],
			Y:      proj.PC2[i],
			Radius: float32(4 + (proj.Overall[i]-minOverall)*5),
			Color:  c,
			Best:   best,
		}
	}
	u.plot.SetData(marks, analysis.AxisLabels[0], analysis.AxisLabels[1])
}

func (u *uiState) refreshRecommendation(ranking []advisor.Recommendation) {
	if len(ranking) == 0 {
		return
	}
	best := ranking[0]
	u.recName.SetText(best.Machine.Name)
	price := u.yen.Sprintf("¥%.0f", best.Machine.Price)
	if !best.InBudget {
		price += "（予算外）"
	}
	u.recPrice.SetText(price)
	u.recSpecs.SetText(u.formatSpecs(best.Machine))
	u.recScore.SetText(fmt.Sprintf("適合スコア: %.2f", best.Score))
}

func (u *uiState) formatSpecs(m advisor.Machine) string {
	u.mu.Lock()
	analysis := u.analysis
	u.mu.Unlock()
	if analysis == nil {
		return ""
	}
	var b strings.Builder
	for i, dim := range analysis.Dataset.Dimensions {
		fmt.Fprintf(&b, "%s: %.0f\n", dim.Label, m.Specs[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

// onPlotTapped shows the detail popup for the machine nearest the tap.
func (u *uiState) onPlotTapped(idx int) {
	u.mu.Lock()
	analysis := u.analysis
	ranking := u.ranking
	u.mu.Unlock()
	if analysis == nil || idx >= len(analysis.Dataset.Machines) {
		return
	}
	m := analysis.Dataset.Machines[idx]
	proj := analysis.Projection

	var rec *advisor.Recommendation
	for i := range ranking {
		if ranking[i].Machine.Name == m.Name {
			rec = &ranking[i]
			break
		}
	}
	budgetStatus := "予算内"
	score := 0.0
	isBest := false
	if rec != nil {
		score = rec.Score
		if !rec.InBudget {
			budgetStatus = "予算外"
		}
		isBest = len(ranking) > 0 && ranking[0].Machine.Name == m.Name
	}
	title := "モデル詳細"
	if isBest {
		title = "★ モデル詳細"
	}
	body := fmt.Sprintf("モデル: %s\n価格: %s (%s)\n%s\n総合性能: %+.2f\n適合スコア: %.2f",
		m.Name,
		u.yen.Sprintf("¥%.0f", m.Price),
		budgetStatus,
		u.formatSpecs(m),
		proj.Overall[idx],
		score)
	dialog.ShowInformation(title, body, u.w)
}

func (u *uiState) appendLog(msg string) {
	u.logCapture.Write([]byte(msg + "\n"))
}

func (u *uiState) saveConfig() {
	cfg := u.service.Config()
	cfg.Preference = u.preference()
	cfg.Budget = u.budget()
	cfg.Preset = u.currentPreset
	if err := advisor.SaveConfig("", cfg); err != nil {
		u.appendLog(fmt.Sprintf("設定の保存に失敗しました: %v", err))
	}
}

type logCapture struct {
	mu      sync.Mutex
	lines   []string
	limit   int
	binding binding.String
}

func newLogCapture(b binding.String, limit int) *logCapture {
	return &logCapture{binding: b, limit: limit}
}

func (l *logCapture) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		l.lines = append(l.lines, part)
	}
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	_ = l.binding.Set(strings.Join(l.lines, "\n"))
	return len(p), nil
}

package app

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/pcadvisor/advisor"
)

// editorState is the spec-table editing tab: a form to append rows, the
// current table, and load/save controls. It is the only input source for
// the analysis tab.
type editorState struct {
	ui   *uiState
	dims []advisor.Dimension

	rows        [][]string // cell text, one row per machine
	selectedRow int        // -1 when nothing is selected

	inputs    []*widget.Entry
	table     *widget.Table
	pathLabel *widget.Label

	currentCSVPath string
}

func newEditorState(ui *uiState) *editorState {
	return &editorState{ui: ui, dims: advisor.DefaultDimensions(), selectedRow: -1}
}

func (e *editorState) headers() []string {
	out := []string{"model"}
	for _, dim := range e.dims {
		out = append(out, dim.Key)
	}
	return append(out, "price")
}

func (e *editorState) fieldLabels() []string {
	out := []string{"モデル名"}
	for _, dim := range e.dims {
		out = append(out, dim.Label)
	}
	return append(out, "価格 (円)")
}

func (e *editorState) build() fyne.CanvasObject {
	labels := e.fieldLabels()
	e.inputs = make([]*widget.Entry, len(labels))
	form := container.NewGridWithColumns(len(labels))
	for i, label := range labels {
		entry := widget.NewEntry()
		entry.SetPlaceHolder(label)
		e.inputs[i] = entry
		form.Add(container.NewVBox(widget.NewLabel(label), entry))
	}

	cols := len(e.headers())
	e.table = widget.NewTable(
		func() (int, int) { return len(e.rows) + 1, cols },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				lbl.SetText(e.headers()[id.Col])
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			rowIdx := id.Row - 1
			if rowIdx >= len(e.rows) || id.Col >= len(e.rows[rowIdx]) {
				lbl.SetText("")
				return
			}
			lbl.SetText(e.rows[rowIdx][id.Col])
		},
	)
	e.table.SetColumnWidth(0, 200)
	for c := 1; c < cols; c++ {
		e.table.SetColumnWidth(c, 110)
	}
	e.table.OnSelected = func(id widget.TableCellID) {
		if id.Row > 0 {
			e.selectedRow = id.Row - 1
		}
	}

	addBtn := widget.NewButton("行を追加", e.onAddRow)
	delBtn := widget.NewButton("選択行削除", e.onDeleteRow)
	clearBtn := widget.NewButton("全消去", e.onClearAll)
	loadBtn := widget.NewButton("既存CSV読込", e.onLoad)
	saveBtn := widget.NewButton("変更を保存", e.onSave)
	saveAsBtn := widget.NewButton("新規CSV保存", e.onSaveAs)
	e.pathLabel = widget.NewLabel("CSV未選択")

	controls := container.NewHBox(addBtn, delBtn, clearBtn, widget.NewSeparator(), loadBtn, saveBtn, saveAsBtn, e.pathLabel)
	return container.NewBorder(container.NewVBox(form, controls), nil, nil, nil, e.table)
}

// dataset validates the table contents and converts them to a Dataset.
func (e *editorState) dataset() (*advisor.Dataset, error) {
	records := make([][]string, 0, len(e.rows)+1)
	records = append(records, e.headers())
	records = append(records, e.rows...)
	return advisor.ParseTable(records, e.dims)
}

func (e *editorState) setDataset(ds *advisor.Dataset) {
	e.rows = e.rows[:0]
	for _, m := range ds.Machines {
		row := make([]string, 0, len(m.Specs)+2)
		row = append(row, m.Name)
		for _, v := range m.Specs {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		row = append(row, strconv.FormatFloat(m.Price, 'g', -1, 64))
		e.rows = append(e.rows, row)
	}
	e.selectedRow = -1
	e.table.Refresh()
}

func (e *editorState) setCurrentPath(path string) {
	e.currentCSVPath = path
	if path == "" {
		e.pathLabel.SetText("CSV未選択")
	} else {
		e.pathLabel.SetText(path)
	}
}

func (e *editorState) onAddRow() {
	row := make([]string, len(e.inputs))
	for i, entry := range e.inputs {
		row[i] = entry.Text
	}
	// Validate the candidate table including the new row before accepting.
	e.rows = append(e.rows, row)
	if _, err := e.dataset(); err != nil {
		e.rows = e.rows[:len(e.rows)-1]
		dialog.ShowError(err, e.ui.w)
		return
	}
	for _, entry := range e.inputs {
		entry.SetText("")
	}
	e.table.Refresh()
}

func (e *editorState) onDeleteRow() {
	if e.selectedRow < 0 || e.selectedRow >= len(e.rows) {
		dialog.ShowInformation("情報", "削除する行を選択してください", e.ui.w)
		return
	}
	e.rows = append(e.rows[:e.selectedRow], e.rows[e.selectedRow+1:]...)
	e.selectedRow = -1
	e.table.Refresh()
}

func (e *editorState) onClearAll() {
	dialog.ShowConfirm("確認", "全てのデータを消去しますか？", func(ok bool) {
		if !ok {
			return
		}
		e.rows = e.rows[:0]
		e.selectedRow = -1
		e.table.Refresh()
	}, e.ui.w)
}

func (e *editorState) onLoad() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		e.ui.loadCSV(path)
	}, e.ui.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

func (e *editorState) onSave() {
	if e.currentCSVPath == "" {
		dialog.ShowInformation("注意", "既存CSVが読み込まれていません", e.ui.w)
		return
	}
	e.saveTo(e.currentCSVPath)
}

func (e *editorState) onSaveAs() {
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		path := uc.URI().Path()
		uc.Close()
		e.saveTo(path)
	}, e.ui.w)
	fd.SetFileName("pc_data.csv")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

func (e *editorState) saveTo(path string) {
	ds, err := e.dataset()
	if err != nil {
		dialog.ShowError(err, e.ui.w)
		return
	}
	if err := advisor.SaveTable(path, ds); err != nil {
		dialog.ShowError(err, e.ui.w)
		return
	}
	e.setCurrentPath(path)
	if err := advisor.RememberPath(e.ui.lastPathFile, path); err != nil {
		e.ui.appendLog(fmt.Sprintf("前回パスの保存に失敗: %v", err))
	}
	e.ui.appendLog(fmt.Sprintf("CSVを保存しました: %s (%d件)", path, len(ds.Machines)))
}

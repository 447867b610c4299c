package models

// Fixed display strings written into the sheet.
const (
	SheetName        = "データ"
	LabelIdentifier  = "NO"
	LabelTimestamp   = "入力日時"
	LabelOperator    = "入力者"
	LabelOther       = "その他"
	SuffixEra        = "_元号"
	SuffixYear       = "_年"
	SuffixMonth      = "_月"
	SuffixDay        = "_日"
	MergedFileSuffix = "_統合"
)

// HeaderRows is the number of fixed header rows above the data region.
const HeaderRows = 3

// FirstDataRow is the 1-based row of the first data record.
const FirstDataRow = HeaderRows + 1

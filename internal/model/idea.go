// Package model はドメインモデルを定義する。
package model

import "time"

// IdeaStage はビジネスアイデアの検討段階を表す。
type IdeaStage string

const (
	// IdeaStageSeed は思いつき段階。作成直後の初期値。
	IdeaStageSeed IdeaStage = "seed"
	// IdeaStageExploring は調査・検討中。
	IdeaStageExploring IdeaStage = "exploring"
	// IdeaStageBuilding は着手済み。
	IdeaStageBuilding IdeaStage = "building"
	// IdeaStageParked は保留。
	IdeaStageParked IdeaStage = "parked"
)

// ParseIdeaStage は文字列をIdeaStageに変換する。未知の値は空を返す。
func ParseIdeaStage(s string) IdeaStage {
	switch IdeaStage(s) {
	case IdeaStageSeed, IdeaStageExploring, IdeaStageBuilding, IdeaStageParked:
		return IdeaStage(s)
	default:
		return IdeaStage("")
	}
}

// BusinessIdea はアイデアボードのカードを表す。
// Bodyはサニタイズ済みHTML。保存前にContentSanitizerを通す。
type BusinessIdea struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	Stage     IdeaStage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// 指示: miu200521358
// Package mpresenter は加工結果やクリップ概要を表形式で整形する。
package mpresenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/miu200521358/mu_anim_helpers/pkg/adapter/io_anim"
	"github.com/miu200521358/mu_anim_helpers/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_anim_helpers/pkg/domain/model"
	"github.com/miu200521358/mu_anim_helpers/pkg/usecase/minteractor"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const listSeparator = ", "

// renderTable は見出しと行から罫線付きの表を生成する。
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// RenderApplyResult は加工処理ごとの焼き込み結果を表にする。
func RenderApplyResult(result *minteractor.ApplyResult) string {
	if result == nil {
		return ""
	}
	rows := make([][]string, 0, len(result.Outputs))
	for _, item := range result.Outputs {
		output := item.Output
		rows = append(rows, []string{
			item.Name,
			fmt.Sprint(len(output.TrackNames())),
			fmt.Sprint(len(output.Curves())),
			strings.Join(output.RemovedCurves(), listSeparator),
			warningText(output.Warnings()),
		})
	}
	return renderTable(
		[]string{messages.LabelModifier, messages.LabelTracks, messages.LabelCurves, messages.LabelRemoved, messages.LabelWarnings},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
	)
}

// RenderClipSummary はクリップの概要を表にする。
func RenderClipSummary(clip *model.AnimationClip) string {
	if clip == nil {
		return ""
	}
	rows := [][]string{
		{messages.LabelClip, clip.Name},
		{messages.LabelFrames, fmt.Sprint(clip.FrameCount)},
		{messages.LabelFrameRate, fmt.Sprintf("%g", clip.FrameRate)},
		{messages.LabelDuration, fmt.Sprintf("%.3f", clip.Duration())},
		{messages.LabelBone, fmt.Sprint(clip.Skeleton.Len())},
		{messages.LabelSockets, fmt.Sprint(len(clip.Skeleton.Sockets()))},
		{messages.LabelTracks, fmt.Sprint(len(clip.TrackNames()))},
		{messages.LabelCurves, strings.Join(clip.FloatCurveNames(), listSeparator)},
	}
	return renderTable([]string{messages.LabelItem, messages.LabelValue}, rows, nil)
}

// RenderBones はボーン階層を表にする。
func RenderBones(clip *model.AnimationClip) string {
	if clip == nil {
		return ""
	}
	skeleton := clip.Skeleton
	rows := make([][]string, 0, skeleton.Len())
	for index := 0; index < skeleton.Len(); index++ {
		parent := "-"
		if parentIndex := skeleton.ParentIndex(index); parentIndex != model.NoParent {
			parent = skeleton.BoneName(parentIndex)
		}
		keyed := ""
		if clip.HasTrack(skeleton.BoneName(index)) {
			keyed = "*"
		}
		rows = append(rows, []string{
			fmt.Sprint(index),
			skeleton.BoneName(index),
			parent,
			skeleton.RetargetMode(index).String(),
			keyed,
		})
	}
	return renderTable(
		[]string{"#", messages.LabelBone, messages.LabelParent, messages.LabelMode, messages.LabelKeyed},
		rows,
		[]columnAlignment{alignRight},
	)
}

// RenderBakeRecords は記録済みの焼き込み結果を表にする。
func RenderBakeRecords(records []io_anim.BakeRecord) string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.RunID,
			record.Modifier,
			record.ClipName,
			fmt.Sprint(record.FrameCount),
			fmt.Sprint(record.TrackCount),
			fmt.Sprint(record.CurveCount),
			warningText(record.Warnings),
			record.CreatedAt.Local().Format(time.DateTime),
		})
	}
	return renderTable(
		[]string{
			messages.LabelRunID, messages.LabelModifier, messages.LabelClip, messages.LabelFrames,
			messages.LabelTracks, messages.LabelCurves, messages.LabelWarnings, messages.LabelRecorded,
		},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}

func warningText(warningIDs []string) string {
	texts := make([]string, 0, len(warningIDs))
	for _, id := range warningIDs {
		texts = append(texts, messages.WarningMessage(id))
	}
	return strings.Join(texts, listSeparator)
}

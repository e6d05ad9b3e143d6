package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
	"github.com/Daniel-Thornton/Solitaire98/ui/components"
)

// 命令行参数
var variantName = flag.String("variant", "klondike", "玩法: klondike/spider/yukon/freecell")
var seed = flag.Int64("seed", 1, "发牌种子")
var steps = flag.Int("steps", 300, "最多自动走多少步")
var games = flag.Int("games", 1, "连续演示的局数")
var showHistory = flag.Bool("history", false, "结束后打印最后一局的指令记录")

// 控制台纸牌演示：按提示自动走牌
func main() {
	flag.Parse()

	pterm.DefaultHeader.WithFullWidth().Println("Solitaire 98 - 控制台演示")

	v, err := game.ParseVariant(*variantName)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	stats := game.NewStatsManager()
	history := game.NewHistoryManager(*games)
	session := game.NewSession(
		game.WithSeed(*seed),
		game.WithStats(stats),
		game.WithHistory(history),
	)

	var lastID string
	for i := 1; i <= *games; i++ {
		pterm.DefaultSection.Printfln("第 %d 局 · %s", i, v.DisplayName())
		state, err := session.StartGame(v)
		if err != nil {
			pterm.Error.Printfln("开局失败: %v", err)
			os.Exit(1)
		}
		lastID = state.GameID
		pterm.Info.Printfln("牌局 %s | 种子 %d", state.GameID, session.Seed())
		fmt.Print(components.TextTable(state))

		autoplay(session, *steps)
		fmt.Print(components.TextTable(session.Snapshot()))
	}

	pterm.DefaultSection.Println("统计")
	data := pterm.TableData{{"玩法", "局数", "获胜", "接受", "拒绝", "胜率"}}
	for _, s := range stats.GetAllStats() {
		data = append(data, []string{
			s.Variant.DisplayName(),
			fmt.Sprint(s.GamesStarted),
			fmt.Sprint(s.GamesWon),
			fmt.Sprint(s.MovesAccepted),
			fmt.Sprint(s.MovesRejected),
			fmt.Sprintf("%.1f%%", s.WinRate*100),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}

	if *showHistory {
		if g, ok := history.GetGame(lastID); ok {
			pterm.DefaultSection.Println("指令记录")
			fmt.Print(g.ExportToText())
		}
	}
}

// autoplay 反复执行提示，直到获胜、没有提示或达到步数上限
func autoplay(session *game.Session, limit int) {
	for step := 0; step < limit; step++ {
		h, ok := session.Hint()
		if !ok {
			pterm.Warning.Printfln("第 %d 步: 没有可走的牌", step+1)
			return
		}
		res := session.Execute(h.Command())
		if !res.Accepted {
			pterm.Warning.Printfln("第 %d 步: %s 被拒绝: %v", step+1, h, res.Err)
			return
		}
		if res.Won {
			pterm.Success.Printfln("获胜! 共 %d 步", res.State.Moves)
			return
		}
	}
	pterm.Info.Printfln("达到步数上限 %d，停止演示", limit)
}

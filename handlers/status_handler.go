package handlers

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"reminder-bot/bot"
	"reminder-bot/utils"
)

func statusValue(ok bool, elapsed int64) string {
	if ok {
		return fmt.Sprintf("✅ %d ms", elapsed)
	}
	return "❌ unreachable"
}

// HandleStatus handles /status.
func HandleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	ctx, cancel := context.WithTimeout(context.Background(), b.GetConfig().KVCheckTimeout)
	defer cancel()

	cpuCount, _ := cpu.Counts(true)
	memory := "unknown"
	if vm, err := mem.VirtualMemory(); err == nil {
		memory = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}
	platform := runtime.GOOS
	if hostInfo, err := host.Info(); err == nil {
		platform = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
	}

	report := utils.RunHealthChecks(ctx,
		utils.Probe{Name: "database", Check: b.DB.PingContext},
		utils.Probe{Name: "kv", Check: b.KV.ConnectionCheck},
	)

	lastRun := "never"
	if state, err := b.RunStates.Load(ctx, b.GetConfig().ShardKey); err != nil {
		lastRun = "unknown"
	} else if state != nil {
		lastRun = fmt.Sprintf("<t:%d:R>", state.LastRun.Unix())
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "💻 OS", Value: platform, Inline: true},
		{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
		{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
		{Name: "🧠 Memory", Value: memory, Inline: true},
		{Name: "⏱️ WebSocket latency", Value: s.HeartbeatLatency().String(), Inline: true},
		{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
	}
	for _, check := range report.Checks {
		fields = append(fields, &discordgo.MessageEmbedField{Name: check.Name, Value: statusValue(check.Success, check.ElapsedMS), Inline: true})
	}
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "🔁 Job interval", Value: b.GetConfig().JobInterval.String(), Inline: true},
		&discordgo.MessageEmbedField{Name: "🕒 Last tick", Value: lastRun, Inline: true},
	)

	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:  "Status",
		Color:  0x5865F2, // Discord Blurple
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("shard %s・%s", b.GetConfig().ShardKey, time.Now().UTC().Format("15:04 MST")),
		},
	})
}

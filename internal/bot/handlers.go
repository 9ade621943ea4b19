package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/example/vocabot/internal/progression"
	"github.com/example/vocabot/internal/quiz"
	"github.com/example/vocabot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.cmdStart(chatID)
		case "quiz":
			b.cmdQuiz(chatID)
		case "review":
			b.cmdReview(chatID)
		case "stats":
			b.cmdStats(chatID)
		case "name":
			b.cmdName(chatID, message.CommandArguments())
		case "reset":
			b.cmdReset(chatID)
		case "quit":
			b.cmdQuit(chatID)
		default:
			b.send(chatID, "コマンドが見つかりません。/start でヘルプを表示します。")
		}
		return
	}

	if b.awaitingName[chatID] {
		delete(b.awaitingName, chatID)
		b.saveName(chatID, message.Text)
		return
	}

	// Plain text while a quiz is running is a typed answer
	if _, ok := b.sessions[chatID]; ok {
		b.handleAnswer(chatID, message.Text)
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	// Clear the loading spinner on the button
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case strings.HasPrefix(data, "lvl:"):
		b.setupLevel(chatID, strings.TrimPrefix(data, "lvl:"))
	case strings.HasPrefix(data, "mode:"):
		b.setupMode(chatID, strings.TrimPrefix(data, "mode:"))
	case strings.HasPrefix(data, "dir:"):
		b.setupDirection(chatID, strings.TrimPrefix(data, "dir:"))
	case strings.HasPrefix(data, "opt:"):
		b.answerOption(chatID, strings.TrimPrefix(data, "opt:"))
	}
}

// ---- commands ----

func (b *Bot) cmdStart(chatID int64) {
	b.send(chatID, strings.Join([]string{
		"英単語クイズへようこそ！",
		"",
		"/quiz - クイズを始める",
		"/review - ミスした単語で復習する",
		"/stats - 成績とランクを見る",
		"/name - 表示名を設定する",
		"/quit - 進行中のクイズをやめる",
		"/reset - 成績を初期化する",
	}, "\n"))
}

func (b *Bot) cmdQuiz(chatID int64) {
	if _, ok := b.sessions[chatID]; ok {
		b.send(chatID, "クイズが進行中です。/quit で中断できます。")
		return
	}
	b.setups[chatID] = &setupState{}
	b.sendWithKeyboard(chatID, "レベルを選んでください", createKeyboard([][]MenuButton{
		{{Text: "レベル1（基礎）", CallbackData: "lvl:1"}},
		{{Text: "レベル2（標準）", CallbackData: "lvl:2"}},
		{{Text: "レベル3（発展）", CallbackData: "lvl:3"}},
	}))
}

func (b *Bot) cmdReview(chatID int64) {
	if _, ok := b.sessions[chatID]; ok {
		b.send(chatID, "クイズが進行中です。/quit で中断できます。")
		return
	}
	profile, err := b.profileRepo.Get(chatID)
	if err != nil {
		log.Printf("Failed to load profile for chat %d: %v", chatID, err)
		b.send(chatID, "プロフィールを読み込めませんでした。")
		return
	}
	b.startSession(chatID, profile, configFromStored(profile.LastConfig), true)
}

func (b *Bot) cmdStats(chatID int64) {
	profile, err := b.profileRepo.Get(chatID)
	if err != nil {
		log.Printf("Failed to load profile for chat %d: %v", chatID, err)
		b.send(chatID, "プロフィールを読み込めませんでした。")
		return
	}

	rank := progression.EffectiveRank(profile)
	acc := progression.RecentAccuracy(profile)

	var sb strings.Builder
	if profile.UserName != "" {
		fmt.Fprintf(&sb, "%s さんの成績\n", profile.UserName)
	}
	fmt.Fprintf(&sb, "ランク：%s\n", rank.Name)
	if remain, ok := progression.NextRankNeed(profile); ok {
		fmt.Fprintf(&sb, "次のランクまで：正解あと%d問\n", remain)
	} else {
		sb.WriteString("次のランクまで：MAX\n")
	}
	fmt.Fprintf(&sb, "累計：%d問中%d問正解\n", profile.TotalAnswered, profile.TotalCorrect)
	fmt.Fprintf(&sb, "直近の正答率：%d%%\n", int(acc*100))
	fmt.Fprintf(&sb, "ミス単語：%d語\n", len(profile.Missed))

	results, err := b.resultRepo.GetRecentByUser(chatID, b.config.HistoryLimit)
	if err != nil {
		log.Printf("Failed to load results for chat %d: %v", chatID, err)
	} else if len(results) > 0 {
		sb.WriteString("\n最近のクイズ：\n")
		for _, r := range results {
			fmt.Fprintf(&sb, "・%s Lv%d %d/%d（%s）\n",
				modeLabel(quiz.Mode(r.Mode)), r.Level, r.Correct, r.Total,
				r.TakenAt.Format("01/02 15:04"))
		}
	}

	b.send(chatID, sb.String())
}

func (b *Bot) cmdName(chatID int64, args string) {
	name := strings.TrimSpace(args)
	if name == "" {
		b.awaitingName[chatID] = true
		b.send(chatID, "表示名を送信してください。")
		return
	}
	b.saveName(chatID, name)
}

func (b *Bot) cmdReset(chatID int64) {
	profile, err := b.profileRepo.Get(chatID)
	if err != nil {
		log.Printf("Failed to load profile for chat %d: %v", chatID, err)
		b.send(chatID, "プロフィールを読み込めませんでした。")
		return
	}
	delete(b.sessions, chatID)
	delete(b.setups, chatID)
	progression.NewTracker(profile, b.profileRepo).Reset()
	b.send(chatID, "成績（正答数・ミス・ランク）を初期化しました。")
}

func (b *Bot) cmdQuit(chatID int64) {
	if _, ok := b.sessions[chatID]; !ok {
		b.send(chatID, "進行中のクイズはありません。")
		return
	}
	// Abandoning discards the session; per-answer commits already stand
	delete(b.sessions, chatID)
	b.send(chatID, "クイズを中断しました。/quiz でいつでも再開できます。")
}

func (b *Bot) saveName(chatID int64, name string) {
	if runes := []rune(name); len(runes) > b.config.MaxNameLength {
		name = string(runes[:b.config.MaxNameLength])
	}
	profile, err := b.profileRepo.Get(chatID)
	if err != nil {
		log.Printf("Failed to load profile for chat %d: %v", chatID, err)
		b.send(chatID, "プロフィールを読み込めませんでした。")
		return
	}
	progression.NewTracker(profile, b.profileRepo).SetUserName(name)
	b.send(chatID, fmt.Sprintf("表示名を「%s」にしました。", name))
}

// ---- setup flow ----

func (b *Bot) setupLevel(chatID int64, value string) {
	setup, ok := b.setups[chatID]
	if !ok {
		return
	}
	level, err := strconv.Atoi(value)
	if err != nil || level < 1 || level > 3 {
		return
	}
	setup.config.Level = level
	b.sendWithKeyboard(chatID, "出題形式を選んでください", createKeyboard([][]MenuButton{
		{{Text: "4択", CallbackData: "mode:mc"}},
		{{Text: "打ち込み", CallbackData: "mode:typing"}},
		{{Text: "ミックス（形＋系）", CallbackData: "mode:mix"}},
	}))
}

func (b *Bot) setupMode(chatID int64, value string) {
	setup, ok := b.setups[chatID]
	if !ok {
		return
	}
	setup.config.Mode = quiz.Mode(value)
	if setup.config.Mode == quiz.ModeMix {
		// Mix fixes its own directions
		setup.config.Direction = quiz.EnToJa
		b.finishSetup(chatID, setup)
		return
	}
	b.sendWithKeyboard(chatID, "出題の向きを選んでください", createKeyboard([][]MenuButton{
		{{Text: "英語 → 日本語", CallbackData: "dir:en_to_ja"}},
		{{Text: "日本語 → 英語", CallbackData: "dir:ja_to_en"}},
	}))
}

func (b *Bot) setupDirection(chatID int64, value string) {
	setup, ok := b.setups[chatID]
	if !ok {
		return
	}
	setup.config.Direction = quiz.Direction(value)
	b.finishSetup(chatID, setup)
}

func (b *Bot) finishSetup(chatID int64, setup *setupState) {
	delete(b.setups, chatID)
	profile, err := b.profileRepo.Get(chatID)
	if err != nil {
		log.Printf("Failed to load profile for chat %d: %v", chatID, err)
		b.send(chatID, "プロフィールを読み込めませんでした。")
		return
	}
	b.startSession(chatID, profile, setup.config, false)
}

// ---- quiz loop ----

func (b *Bot) startSession(chatID int64, profile *models.LearnerProfile, cfg quiz.Config, review bool) {
	tracker := progression.NewTracker(profile, b.profileRepo)
	tracker.RememberConfig(storedFromConfig(cfg))

	var (
		session *quiz.Session
		err     error
	)
	if review {
		session, err = quiz.NewReview(b.generator, cfg, profile.MissedWords(), tracker)
	} else {
		session, err = quiz.New(b.generator, cfg, tracker)
	}
	if err == quiz.ErrEmptyPool {
		b.send(chatID, "出題できる単語がありません。ミスした単語を貯めてから /review を試してください。")
		return
	}
	if err != nil {
		log.Printf("Failed to start session for chat %d: %v", chatID, err)
		b.send(chatID, "クイズを開始できませんでした。")
		return
	}

	b.sessions[chatID] = &chatSession{session: session, tracker: tracker, review: review}
	b.sendQuestion(chatID)
}

func (b *Bot) sendQuestion(chatID int64) {
	cs, ok := b.sessions[chatID]
	if !ok {
		return
	}
	q, err := cs.session.Current()
	if err != nil {
		log.Printf("Failed to read current question for chat %d: %v", chatID, err)
		return
	}

	idx, total := cs.session.Position()
	text := fmt.Sprintf("【%s】%d / %d\n%s", kindLabel(q.Kind), idx+1, total, q.Prompt)

	if q.HasOptions() {
		var rows [][]MenuButton
		for i, opt := range q.Options {
			rows = append(rows, []MenuButton{{Text: opt, CallbackData: fmt.Sprintf("opt:%d", i)}})
		}
		b.sendWithKeyboard(chatID, text, createKeyboard(rows))
		return
	}
	b.send(chatID, text+"\n答えを入力してください。")
}

func (b *Bot) answerOption(chatID int64, value string) {
	cs, ok := b.sessions[chatID]
	if !ok {
		return
	}
	q, err := cs.session.Current()
	if err != nil {
		return
	}
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 0 || idx >= len(q.Options) {
		return
	}
	b.handleAnswer(chatID, q.Options[idx])
}

func (b *Bot) handleAnswer(chatID int64, given string) {
	cs, ok := b.sessions[chatID]
	if !ok {
		return
	}
	verdict, err := cs.session.Submit(given)
	if err != nil {
		log.Printf("Failed to submit answer for chat %d: %v", chatID, err)
		return
	}

	if verdict.Correct {
		b.send(chatID, "正解！")
	} else {
		b.send(chatID, fmt.Sprintf("不正解… 正解：%s", verdict.CanonicalAnswer))
	}

	finished, err := cs.session.Advance()
	if err != nil {
		log.Printf("Failed to advance session for chat %d: %v", chatID, err)
		return
	}
	if finished {
		b.finishSession(chatID, cs)
		return
	}
	b.sendQuestion(chatID)
}

func (b *Bot) finishSession(chatID int64, cs *chatSession) {
	delete(b.sessions, chatID)

	summary, err := cs.session.Summary()
	if err != nil {
		log.Printf("Failed to read summary for chat %d: %v", chatID, err)
		return
	}

	// Review runs stay out of the regular result history
	if cs.review {
		b.sendFinishMessage(chatID, cs, summary)
		return
	}

	if err := b.resultRepo.Create(&models.QuizResult{
		UserID:    chatID,
		Mode:      string(summary.Config.Mode),
		Direction: string(summary.Config.Direction),
		Level:     summary.Config.Level,
		Total:     summary.Total,
		Correct:   summary.CorrectCount,
	}); err != nil {
		log.Printf("Failed to save quiz result for chat %d: %v", chatID, err)
	}

	b.sendFinishMessage(chatID, cs, summary)
}

func (b *Bot) sendFinishMessage(chatID int64, cs *chatSession, summary quiz.Summary) {
	pct := 0
	if summary.Total > 0 {
		pct = summary.CorrectCount * 100 / summary.Total
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "終了！ 正解：%d / %d（%d%%）\n", summary.CorrectCount, summary.Total, pct)
	fmt.Fprintf(&sb, "ランク：%s\n", progression.EffectiveRank(cs.tracker.Profile()).Name)

	missed := summary.MissedWords()
	if len(missed) == 0 {
		sb.WriteString("\nミスはありませんでした。")
	} else {
		sb.WriteString("\n今回のミス：\n")
		for i, w := range missed {
			if i == b.config.MissListLimit {
				break
			}
			fmt.Fprintf(&sb, "・%s - %s（Lv%d / %s）\n", w.EN, w.JA, w.Level, w.Series)
		}
		sb.WriteString("\n/review でミスした単語を復習できます。")
	}

	b.send(chatID, sb.String())
}

// ---- labels ----

func kindLabel(kind quiz.Kind) string {
	switch kind {
	case quiz.KindTyped:
		return "打ち込み"
	case quiz.KindVerbForm:
		return "形（4択）"
	case quiz.KindSeries:
		return "系（4択）"
	default:
		return "4択"
	}
}

func modeLabel(mode quiz.Mode) string {
	switch mode {
	case quiz.ModeTyped:
		return "打ち込み"
	case quiz.ModeMix:
		return "ミックス"
	default:
		return "4択"
	}
}

func configFromStored(c models.StoredConfig) quiz.Config {
	cfg := quiz.Config{
		Level:     c.Level,
		Mode:      quiz.Mode(c.Mode),
		Direction: quiz.Direction(c.Direction),
	}
	if cfg.Level < 1 || cfg.Level > 3 {
		cfg.Level = 1
	}
	if cfg.Mode == "" {
		cfg.Mode = quiz.ModeChoice
	}
	if cfg.Direction == "" {
		cfg.Direction = quiz.EnToJa
	}
	return cfg
}

func storedFromConfig(c quiz.Config) models.StoredConfig {
	return models.StoredConfig{
		Level:     c.Level,
		Mode:      string(c.Mode),
		Direction: string(c.Direction),
	}
}

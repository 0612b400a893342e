package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/reelroom/reelroom/constant"
	"github.com/reelroom/reelroom/grid"
	"github.com/reelroom/reelroom/internal/ui"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/media/mpv"
	"github.com/reelroom/reelroom/player"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// statefulBubble holds the library grid, the open player and the navigation state.
type statefulBubble struct {
	state         state
	statesHistory []state
	keymap        *statefulKeymap

	// components
	spinnerC  spinner.Model
	assetsC   list.Model
	progressC progress.Model
	helpC     help.Model

	ctx context.Context

	grid       *grid.Coordinator
	previews   map[string]*mpv.Element
	previewsOn bool
	hovered    string
	unsubGrid  func()

	keyboard    *player.Keyboard
	player      *player.Player
	element     *mpv.Element
	playing     *library.Asset
	playerState player.State
	unsubPlayer func()
	opening     bool

	playerStates chan player.State
	playerFaults chan error
	gridChanged  chan struct{}

	progressStatus string
	lastError      error

	width, height int
	notifier      *ui.Model

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState switches both the workflow state and its keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering the current state unless it is transient.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if b.state != loadingState {
		b.statesHistory = append(b.statesHistory, b.state)
	}

	b.setState(s)
}

// previousState restores the state before the last newState.
func (b *statefulBubble) previousState() {
	if n := len(b.statesHistory); n > 0 {
		b.setState(b.statesHistory[n-1])
		b.statesHistory = b.statesHistory[:n-1]
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.assetsC.SetSize(listWidth, listHeight)
	b.assetsC.Help.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.progressC.Width = util.Clamp(b.width, 10, 80)
	b.helpC.Width = listWidth
}

// offer hands v to a single-slot channel, replacing any value not yet consumed.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

func newBubble(ctx context.Context, options *Options) (*statefulBubble, error) {
	if options.Library == nil {
		return nil, fmt.Errorf("tui: no library")
	}

	coordinator, err := grid.New(ctx, grid.Options{ReducedMotion: grid.DetectReducedMotion()})
	if err != nil {
		return nil, err
	}

	bubble := &statefulBubble{
		keymap:   newStatefulKeymap(),
		ctx:      ctx,
		grid:     coordinator,
		previews: make(map[string]*mpv.Element),
		keyboard: player.NewKeyboard(),

		playerStates: make(chan player.State, 1),
		playerFaults: make(chan error, 8),
		gridChanged:  make(chan struct{}, 1),

		notifier: &ui.Model{},
		options:  options,
		opening:  options.Asset.IsPresent(),
	}

	bubble.previewsOn = viper.GetBool(key.GridPreviews) && !coordinator.ReducedMotion()
	bubble.unsubGrid = coordinator.Subscribe(func([]grid.Card) {
		offer(bubble.gridChanged, struct{}{})
	})

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.assetsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.assetsC.KeyMap = bubble.keymap.forList()
	bubble.assetsC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.assetsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return bubble.keymap.FullHelp()[0]
	}
	bubble.assetsC.Title = fmt.Sprintf("%s v%s", constant.App, constant.Version)
	bubble.assetsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)
	bubble.assetsC.Styles.NoItems = paddingStyle
	bubble.assetsC.StatusMessageLifetime = 3 * time.Second
	bubble.assetsC.SetStatusBarItemName("asset", "assets")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble, nil
}

// shutdown releases every mpv window the bubble opened.
func (b *statefulBubble) shutdown() {
	if b.player != nil {
		b.savePosition()
		if b.unsubPlayer != nil {
			b.unsubPlayer()
		}
		_ = b.player.Close()
	}

	b.unsubGrid()
	b.grid.Close()
	for _, el := range lo.Values(b.previews) {
		_ = el.Release()
	}
}

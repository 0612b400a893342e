package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelroom/reelroom/config"
	"github.com/reelroom/reelroom/grid"
	"github.com/reelroom/reelroom/history"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/media/mpv"
	"github.com/reelroom/reelroom/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

type (
	assetsLoadedMsg []*library.Asset
	playerStateMsg  player.State
	gridChangedMsg  struct{}
	playerFaultMsg  struct{ err error }

	playerReadyMsg struct {
		asset       *library.Asset
		player      *player.Player
		element     *mpv.Element
		unsubscribe func()
		err         error
	}

	previewReadyMsg struct {
		id      string
		element *mpv.Element
		err     error
	}

	playerExitedMsg struct {
		element *mpv.Element
	}
)

func (b *statefulBubble) loadAssets() tea.Cmd {
	return func() tea.Msg {
		assets, err := b.options.Library.List(b.ctx, library.Filter{})
		if err != nil {
			return fmt.Errorf("load library: %w", err)
		}
		return assetsLoadedMsg(assets)
	}
}

func (b *statefulBubble) setAssets(assets []*library.Asset) tea.Cmd {
	items := lo.Map(assets, func(a *library.Asset, _ int) list.Item {
		return &listItem{asset: a, resume: history.Resume(a.ID)}
	})

	cmd := b.assetsC.SetItems(items)
	b.refreshCards()
	return cmd
}

// refreshCards copies the grid's card state onto the list items.
func (b *statefulBubble) refreshCards() {
	for _, item := range b.assetsC.Items() {
		if it, ok := item.(*listItem); ok {
			card, found := b.grid.Card(it.asset.ID)
			it.card = lo.Ternary(found, mo.Some(card), mo.None[grid.Card]())
		}
	}
}

func (b *statefulBubble) selectedAsset() (*library.Asset, bool) {
	item, ok := b.assetsC.SelectedItem().(*listItem)
	if !ok {
		return nil, false
	}
	return item.asset, true
}

// hover moves the pointer onto the selected card, leaving the previous one.
func (b *statefulBubble) hover() tea.Cmd {
	id := ""
	asset, ok := b.selectedAsset()
	if ok {
		id = asset.ID
	}

	if id == b.hovered {
		return nil
	}

	b.unhover()
	b.hovered = id

	if id == "" || !b.previewsOn {
		return nil
	}

	if _, mounted := b.previews[id]; mounted {
		b.grid.PointerEnter(id)
		return nil
	}

	return b.loadPreview(asset)
}

func (b *statefulBubble) unhover() {
	if b.hovered != "" {
		b.grid.PointerLeave(b.hovered)
		b.hovered = ""
	}
}

// loadPreview opens a paused preview window for asset.
func (b *statefulBubble) loadPreview(asset *library.Asset) tea.Cmd {
	el := mpv.New(mpv.Options{
		Binary:     viper.GetString(key.PlayerBinary),
		Title:      "preview: " + asset.Title,
		Geometry:   viper.GetString(key.GridPreviewGeometry),
		Borderless: true,
	})
	b.previews[asset.ID] = el

	return func() tea.Msg {
		return previewReadyMsg{
			id:      asset.ID,
			element: el,
			err:     el.Load(b.ctx, asset.SourceURL),
		}
	}
}

// mountPreview adds a loaded preview to the grid. A preview that failed to
// load is still mounted so the grid marks it failed and never retries it.
func (b *statefulBubble) mountPreview(msg previewReadyMsg) {
	if b.previews[msg.id] != msg.element {
		go func() { _ = msg.element.Release() }()
		return
	}

	if msg.err != nil {
		log.Warnf("preview %s: %v", msg.id, msg.err)
	}

	if err := b.grid.Add(msg.id, msg.element); err != nil {
		log.Warnf("preview %s: %v", msg.id, err)
		return
	}

	if b.hovered == msg.id && b.state == libraryState {
		b.grid.PointerEnter(msg.id)
	}
}

// setPreviews turns hover previews on or off, closing every preview window
// when they go off.
func (b *statefulBubble) setPreviews(on bool) {
	b.previewsOn = on
	if on {
		return
	}

	b.unhover()
	for id, el := range b.previews {
		b.grid.Remove(id)
		go func(el *mpv.Element) { _ = el.Release() }(el)
	}
	b.previews = make(map[string]*mpv.Element)
}

// openPlayer mounts a player for asset and starts playback, resuming from
// the saved position when there is one.
func (b *statefulBubble) openPlayer(asset *library.Asset) tea.Cmd {
	b.opening = true
	b.progressStatus = fmt.Sprintf("Opening %s", asset.Title)
	b.unhover()

	return func() tea.Msg {
		el := mpv.New(mpv.Options{
			Binary: viper.GetString(key.PlayerBinary),
			Title:  asset.Title,
		})

		p, err := player.New(b.ctx, el, player.Options{
			ID:         asset.ID,
			SourceURL:  asset.SourceURL,
			PosterURL:  asset.PosterURL,
			OnError:    func(err error) { offer(b.playerFaults, err) },
			Volume:     mo.Some(viper.GetFloat64(key.PlayerDefaultVolume)),
			HideDelay:  config.ControlsHideDelay(),
			SeekStep:   viper.GetFloat64(key.PlayerSeekStep),
			VolumeStep: viper.GetFloat64(key.PlayerVolumeStep),
			Document:   b.keyboard,
		})
		if err != nil {
			_ = el.Release()
			return playerReadyMsg{asset: asset, err: err}
		}

		unsubscribe := p.Subscribe(func(s player.State) {
			offer(b.playerStates, s)
		})

		if err := p.Play(); err == nil {
			if pos, ok := history.Resume(asset.ID).Get(); ok {
				_ = p.Seek(pos)
			}
		}

		return playerReadyMsg{asset: asset, player: p, element: el, unsubscribe: unsubscribe}
	}
}

// closePlayer saves the position and tears the player down in the background.
func (b *statefulBubble) closePlayer() {
	if b.player == nil {
		return
	}

	b.savePosition()

	p, unsubscribe := b.player, b.unsubPlayer
	b.player, b.element, b.playing, b.unsubPlayer = nil, nil, nil, nil
	b.playerState = player.State{}

	if unsubscribe != nil {
		unsubscribe()
	}
	go func() { _ = p.Close() }()
}

func (b *statefulBubble) savePosition() {
	if b.playing == nil {
		return
	}

	s := b.player.State()
	if s.CurrentTime <= 0 {
		return
	}

	if err := history.Save(b.playing.ID, b.playing.Title, s.CurrentTime, s.Duration); err != nil {
		log.Warnf("save position of %s: %v", b.playing.ID, err)
	}

	for _, item := range b.assetsC.Items() {
		if it, ok := item.(*listItem); ok && it.asset.ID == b.playing.ID {
			it.resume = history.Resume(it.asset.ID)
		}
	}
}

// stepRate moves one step through player.AllowedRates from current.
func stepRate(current float64, step int) float64 {
	idx := lo.IndexOf(player.AllowedRates, current)
	if idx < 0 {
		idx = lo.IndexOf(player.AllowedRates, 1.0)
	}

	idx += step
	if idx < 0 || idx >= len(player.AllowedRates) {
		return current
	}
	return player.AllowedRates[idx]
}

func (b *statefulBubble) waitForPlayerState() tea.Cmd {
	return func() tea.Msg {
		return playerStateMsg(<-b.playerStates)
	}
}

func (b *statefulBubble) waitForPlayerFault() tea.Cmd {
	return func() tea.Msg {
		return playerFaultMsg{err: <-b.playerFaults}
	}
}

func (b *statefulBubble) waitForGrid() tea.Cmd {
	return func() tea.Msg {
		<-b.gridChanged
		return gridChangedMsg{}
	}
}

func (b *statefulBubble) waitForPlayerExit(el *mpv.Element) tea.Cmd {
	return func() tea.Msg {
		<-el.Exited()
		return playerExitedMsg{element: el}
	}
}

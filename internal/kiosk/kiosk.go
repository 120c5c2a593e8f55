package kiosk

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"chosenoffset.com/arcade/internal/asset"
	"chosenoffset.com/arcade/internal/audio"
	"chosenoffset.com/arcade/internal/input"
	"chosenoffset.com/arcade/internal/interaction"
	"chosenoffset.com/arcade/internal/overlay"
	"chosenoffset.com/arcade/internal/placeholders"
	"chosenoffset.com/arcade/internal/render"
)

// State is where a kiosk is in its interaction
type State int

const (
	// Idle kiosks are out of the player's reach
	Idle State = iota
	// Prompting kiosks are in reach with the menu closed
	Prompting
	// MenuOpen kiosks own the interaction lock and the overlay
	MenuOpen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Prompting:
		return "prompting"
	case MenuOpen:
		return "menu-open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Sounds plays feedback sounds. *audio.Engine satisfies it.
type Sounds interface {
	Play(kind audio.EventKind)
}

// Deps are the collaborators a kiosk shares with the rest of the world
type Deps struct {
	Renderer render.Renderer
	Loader   render.ResourceLoader
	Router   *input.Router
	Lock     *interaction.Lock
	Overlay  *overlay.Manager
	Launcher Launcher

	// Sounds replaces the kiosk's own audio engine when set
	Sounds      Sounds
	AudioConfig *audio.Config
	AudioOutput audio.Output

	// ResolveAssetPath maps logical image paths to loadable ones
	ResolveAssetPath asset.Resolver
	RetryDelay       time.Duration

	// Reference returns the surface the overlay must cover, nil if unknown
	Reference func() render.Surface

	// Notify shows a short message to the player. Optional.
	Notify func(text string)
}

const (
	promptEase = 6.0
	glowMargin = 6
)

var confirmKeys = []string{render.KeyEnter.String(), render.KeySpace.String()}

// Kiosk is a proximity-triggered entity with a catalog menu
type Kiosk struct {
	def       Definition
	theme     Theme
	deps      Deps
	pos       interaction.Vec2
	glowColor color.RGBA

	proximity  interaction.Proximity
	state      State
	token      interaction.Token
	layer      *input.Layer
	compositor *overlay.Compositor
	sounds     Sounds

	sprite *asset.Image
	// images parallels def.Items; close actions have none
	images []*asset.Image
	cancel context.CancelFunc

	selected    int
	prevConfirm bool
	pending     []input.Event
	surfaceErr  bool

	glow          float64
	glowDir       float64
	promptOpacity float64
	elapsed       float64
}

// New builds a kiosk from a validated definition and starts loading its images
func New(def Definition, deps Deps) (*Kiosk, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if deps.Renderer == nil || deps.Loader == nil || deps.Router == nil || deps.Lock == nil || deps.Overlay == nil {
		return nil, fmt.Errorf("kiosk %s: missing collaborators", def.Name)
	}
	theme, err := LookupTheme(def.Theme)
	if err != nil {
		return nil, fmt.Errorf("kiosk %s: %w", def.Name, err)
	}
	glowColor, err := ParseColor(def.Glow.Color)
	if err != nil {
		return nil, fmt.Errorf("kiosk %s: %w", def.Name, err)
	}

	k := &Kiosk{
		def:        def,
		theme:      theme,
		deps:       deps,
		pos:        interaction.Vec2{X: def.X, Y: def.Y},
		glowColor:  glowColor,
		layer:      input.NewLayer(deps.Router),
		compositor: overlay.NewCompositor(def.Name, deps.Overlay, deps.Renderer),
		sounds:     deps.Sounds,
		glow:       def.Glow.Min,
		glowDir:    1,
	}
	if def.Glow.Direction < 0 {
		k.glowDir = -1
	}
	if k.sounds == nil {
		k.sounds = audio.NewEngine(deps.AudioConfig, theme.Sound, deps.AudioOutput)
	}
	if k.deps.Launcher == nil {
		k.deps.Launcher = NewBrowserLauncher()
	}

	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel

	k.sprite = asset.New(deps.Loader, def.Sprite, k.synthSprite, asset.Options{
		Fallbacks:  def.SpriteFallbacks,
		Resolver:   deps.ResolveAssetPath,
		RetryDelay: deps.RetryDelay,
		Label:      def.Name + " sprite",
	})
	k.sprite.Resolve(ctx)

	k.images = make([]*asset.Image, len(def.Items))
	for i, it := range def.Items {
		if it.Closes() {
			continue
		}
		it := it
		k.images[i] = asset.New(deps.Loader, it.Image, func() render.Image {
			card := placeholders.ThumbnailCard(it.Title, it.Description, theme.Palette, 0, 0)
			return deps.Renderer.NewImageFromImage(card)
		}, asset.Options{
			Fallbacks:  it.Fallbacks,
			Resolver:   deps.ResolveAssetPath,
			RetryDelay: deps.RetryDelay,
			Label:      def.Name + "/" + it.Title,
		})
		k.images[i].Resolve(ctx)
	}

	return k, nil
}

func (k *Kiosk) synthSprite() render.Image {
	sprite := placeholders.CabinetSprite(k.theme.Name, k.theme.Palette, int(k.def.Width), int(k.def.Height))
	return k.deps.Renderer.NewImageFromImage(sprite)
}

func (k *Kiosk) notify(text string) {
	if k.deps.Notify != nil {
		k.deps.Notify(text)
	}
}

func (k *Kiosk) logf(format string, args ...any) {
	log.Printf("[kiosk %s] "+format, append([]any{k.def.Name}, args...)...)
}

// Update advances the kiosk one frame. Proximity is evaluated first, then
// key edges and queued menu input, then the overlay is redrawn if the menu
// is still open.
func (k *Kiosk) Update(dt float64, player interaction.Vec2) error {
	k.elapsed += dt

	res := k.proximity.Evaluate(k.pos, player, k.def.Radius)
	if res.Entered() {
		k.glow = k.def.Glow.Max
		k.glowDir = -1
		k.sounds.Play(audio.Proximity)
	}
	switch {
	case k.state == MenuOpen && !res.Near:
		k.logf("player left, closing menu")
		k.close()
	case k.state == MenuOpen:
	case res.Near:
		k.state = Prompting
	default:
		k.state = Idle
	}

	confirm := k.deps.Router.Model().AnyDown(confirmKeys...)
	if confirm && !k.prevConfirm && k.state == Prompting {
		k.open()
	}
	k.prevConfirm = confirm

	if k.state == MenuOpen {
		k.drainMenuEvents()
	}
	if k.state == MenuOpen {
		k.redraw()
	}

	k.animate(dt)
	return nil
}

func (k *Kiosk) open() {
	if len(k.def.Items) == 0 {
		k.logf("confirm ignored: %v", ErrEmptyCatalog)
		return
	}
	tok, err := k.deps.Lock.Acquire(k.def.Name)
	if err != nil {
		k.logf("cannot open menu: %v", err)
		k.notify("Another kiosk is in use")
		return
	}
	k.token = tok
	k.state = MenuOpen
	k.pending = nil
	if k.selected >= len(k.def.Items) {
		k.selected = 0
	}
	k.sounds.Play(audio.Open)
	k.layer.Install(k.enqueue)
}

func (k *Kiosk) close() {
	if k.state != MenuOpen {
		return
	}
	if err := k.deps.Lock.Release(k.token); err != nil {
		k.logf("Warning: releasing interaction lock: %v", err)
	}
	k.token = interaction.Token{}
	k.sounds.Play(audio.Close)
	k.layer.Uninstall()
	k.pending = nil
	k.compositor.Destroy()
	k.surfaceErr = false

	if k.proximity.Near() {
		k.state = Prompting
	} else {
		k.state = Idle
	}
}

func (k *Kiosk) enqueue(ev input.Event) {
	k.pending = append(k.pending, ev)
}

func (k *Kiosk) drainMenuEvents() {
	events := k.pending
	k.pending = nil

	confirmed := false
	for _, ev := range events {
		if k.state != MenuOpen {
			return
		}
		switch ev.Kind {
		case input.Click:
			k.handleClick(ev.X, ev.Y)
		case input.KeyDown:
			switch ev.Key {
			case render.KeyUp.String(), render.KeyW.String():
				k.move(-1)
			case render.KeyDown.String(), render.KeyS.String():
				k.move(1)
			case render.KeyEnter.String(), render.KeySpace.String():
				// Enter and Space in the same frame are one confirm
				if !confirmed {
					confirmed = true
					k.confirmSelected()
				}
			case render.KeyEscape.String(), render.KeyBackspace.String(), render.KeyQ.String():
				k.close()
			}
		}
	}
}

func (k *Kiosk) move(delta int) {
	n := len(k.def.Items)
	if n == 0 {
		return
	}
	k.selected = ((k.selected+delta)%n + n) % n
	k.sounds.Play(audio.Select)
}

func (k *Kiosk) confirmSelected() {
	if len(k.def.Items) == 0 {
		k.logf("launch ignored: %v", ErrEmptyCatalog)
		return
	}
	it := k.def.Items[k.selected]
	if it.Closes() {
		k.close()
		return
	}
	k.sounds.Play(audio.Launch)
	if err := k.deps.Launcher.Open(it.URL); err != nil {
		k.logf("Warning: launch %q: %v", it.Title, err)
		k.notify(fmt.Sprintf("Could not open %s", it.Title))
	}
	k.close()
}

func (k *Kiosk) handleClick(x, y int) {
	area, ok := k.compositor.HandleClick(x, y)
	if !ok {
		return
	}
	switch area.Kind {
	case overlay.KindExternalLink:
		k.sounds.Play(audio.Activate)
		if err := k.deps.Launcher.Open(area.URL); err != nil {
			k.logf("Warning: open link: %v", err)
			k.notify("Could not open link")
		}
	case overlay.KindItem:
		if area.Index != k.selected && area.Index < len(k.def.Items) {
			k.selected = area.Index
			k.sounds.Play(audio.Select)
		}
	}
}

func (k *Kiosk) redraw() {
	var ref render.Surface
	if k.deps.Reference != nil {
		ref = k.deps.Reference()
	}
	if _, err := k.compositor.EnsureSurface(ref); err != nil {
		if !k.surfaceErr {
			k.logf("Error: skipping menu redraw: %v", err)
			k.surfaceErr = true
		}
		return
	}
	k.surfaceErr = false

	entries := make([]overlay.Entry, len(k.def.Items))
	for i, it := range k.def.Items {
		entries[i] = overlay.Entry{Title: it.Title, Description: it.Description, Action: it.Closes()}
		if img := k.images[i]; img != nil {
			entries[i].Thumb = img.Handle()
		}
	}
	credits := make([]overlay.Link, len(k.def.Credits))
	for i, c := range k.def.Credits {
		credits[i] = overlay.Link{Label: c.Label, URL: c.URL}
	}

	err := k.compositor.Redraw(overlay.State{
		Header:        k.def.Header,
		Footer:        k.def.Footer,
		Entries:       entries,
		SelectedIndex: k.selected,
		Credits:       credits,
		Elapsed:       time.Duration(k.elapsed * float64(time.Second)),
		Style:         k.theme.Style,
	})
	if err != nil {
		k.logf("Error: menu redraw: %v", err)
	}
}

func (k *Kiosk) animate(dt float64) {
	g := k.def.Glow
	if g.Speed > 0 && g.Max > g.Min {
		k.glow += k.glowDir * g.Speed * dt
		if k.glow >= g.Max {
			k.glow = g.Max
			k.glowDir = -1
		}
		if k.glow <= g.Min {
			k.glow = g.Min
			k.glowDir = 1
		}
	}

	target := 0.0
	if k.state == Prompting {
		target = 1
	}
	k.promptOpacity += (target - k.promptOpacity) * math.Min(1, dt*promptEase)
}

// Draw renders the kiosk in the world centred on (screenX, screenY): glow,
// sprite and the eased prompt. The menu draws itself on the overlay.
func (k *Kiosk) Draw(screen render.Image, screenX, screenY float64) {
	r := k.deps.Renderer
	w, h := k.def.Width, k.def.Height
	x, y := screenX-w/2, screenY-h/2

	halo := color.NRGBA{k.glowColor.R, k.glowColor.G, k.glowColor.B, uint8(160 * clamp01(k.glow*k.def.Glow.Intensity))}
	r.FillRect(screen, float32(x-glowMargin), float32(y-glowMargin), float32(w+2*glowMargin), float32(h+2*glowMargin), halo)

	if img := k.sprite.Handle(); img != nil {
		iw, ih := img.Size()
		if iw > 0 && ih > 0 {
			opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
			opts.GeoM.Scale(w/float64(iw), h/float64(ih))
			opts.GeoM.Translate(x, y)
			screen.DrawImage(img, opts)
		}
	} else {
		r.FillRect(screen, float32(x), float32(y), float32(w), float32(h), k.theme.Palette.Background)
		r.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, k.theme.Palette.Border)
	}

	if k.promptOpacity > 0.01 && k.def.Prompt != "" {
		tw, th := r.MeasureText(k.def.Prompt, 1)
		col := color.NRGBA{255, 255, 255, uint8(255 * clamp01(k.promptOpacity))}
		r.DrawText(screen, k.def.Prompt, int(screenX)-tw/2, int(y)-th-glowMargin-4, col, 1)
	}
}

// Destroy tears the kiosk down: listeners, lock, overlay and images
func (k *Kiosk) Destroy() {
	k.cancel()
	k.layer.Uninstall()
	if k.token.Valid() {
		if err := k.deps.Lock.Release(k.token); err != nil {
			k.logf("Warning: releasing interaction lock: %v", err)
		}
		k.token = interaction.Token{}
	}
	k.compositor.Destroy()
	k.pending = nil
	k.state = Idle

	k.sprite.Dispose()
	for _, img := range k.images {
		if img != nil {
			img.Dispose()
		}
	}
}

// MoveTo repositions a non-static kiosk. Static kiosks refuse.
func (k *Kiosk) MoveTo(pos interaction.Vec2) bool {
	if k.def.Static {
		return false
	}
	k.pos = pos
	return true
}

// Name returns the kiosk's unique name
func (k *Kiosk) Name() string { return k.def.Name }

// Definition returns the definition the kiosk was built from
func (k *Kiosk) Definition() Definition { return k.def }

// Position returns the centre of the kiosk in world units
func (k *Kiosk) Position() interaction.Vec2 { return k.pos }

// State returns the current interaction state
func (k *Kiosk) State() State { return k.state }

// Near reports whether the player was in reach on the last update
func (k *Kiosk) Near() bool { return k.proximity.Near() }

// SelectedIndex returns the highlighted catalog entry
func (k *Kiosk) SelectedIndex() int { return k.selected }

// Glow returns the current glow level
func (k *Kiosk) Glow() float64 { return k.glow }

// PromptOpacity returns the eased prompt opacity in [0, 1]
func (k *Kiosk) PromptOpacity() float64 { return k.promptOpacity }

// Overlay returns the kiosk's menu compositor
func (k *Kiosk) Overlay() *overlay.Compositor { return k.compositor }

// ItemImage returns the image of catalog item i, nil for close actions
func (k *Kiosk) ItemImage(i int) *asset.Image {
	if i < 0 || i >= len(k.images) {
		return nil
	}
	return k.images[i]
}

// Sprite returns the kiosk's world sprite
func (k *Kiosk) Sprite() *asset.Image { return k.sprite }

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

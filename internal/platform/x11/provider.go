//go:build linux

package x11

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/mj1618/findui/internal/logging"
	"github.com/mj1618/findui/internal/platform"
)

// Window is an X11 window id used as a platform.Handle.
type Window xproto.Window

// Key implements platform.Handle.
func (w Window) Key() string { return fmt.Sprintf("0x%08x", uint32(w)) }

// Provider reads the X11 window tree. Every X window is a node; the
// attributes come from ICCCM and EWMH properties.
type Provider struct {
	conn *Connection
	log  *slog.Logger
}

var (
	_ platform.Provider        = (*Provider)(nil)
	_ platform.PointSampler    = (*Provider)(nil)
	_ platform.ProcessReporter = (*Provider)(nil)
)

// NewProvider opens a connection to the X server.
func NewProvider(opts platform.Options) (*Provider, error) {
	conn, err := NewConnection()
	if err != nil {
		return nil, err
	}
	return &Provider{conn: conn, log: logging.OrDiscard(opts.Logger)}, nil
}

func window(h platform.Handle) (xproto.Window, error) {
	w, ok := h.(Window)
	if !ok {
		return 0, fmt.Errorf("x11: foreign handle %v", h)
	}
	return xproto.Window(w), nil
}

// FindTopLevelWindows matches managed client windows, topmost first.
func (p *Provider) FindTopLevelWindows(match platform.TitleMatcher) ([]platform.Handle, error) {
	clients, err := p.clients()
	if err != nil {
		return nil, err
	}
	var out []platform.Handle
	for _, win := range clients {
		title := p.title(win)
		if match.Match(title) {
			out = append(out, Window(win))
		}
	}
	p.log.Debug("x11 window search", "clients", len(clients), "matches", len(out), "title", match.Spec().String())
	return out, nil
}

// clients returns the managed windows in stacking order, topmost first.
func (p *Provider) clients() ([]xproto.Window, error) {
	xu := p.conn.XUtil
	stacking, err := ewmh.ClientListStackingGet(xu)
	if err == nil {
		out := make([]xproto.Window, 0, len(stacking))
		for i := len(stacking) - 1; i >= 0; i-- {
			out = append(out, stacking[i])
		}
		return out, nil
	}
	clients, err := ewmh.ClientListGet(xu)
	if err != nil {
		return nil, fmt.Errorf("read _NET_CLIENT_LIST: %w", err)
	}
	return clients, nil
}

// PointHitTest descends from the root through the mapped child containing
// the point until no deeper child exists.
func (p *Provider) PointHitTest(x, y int) (platform.Handle, error) {
	if !inInt16(x) || !inInt16(y) {
		return nil, fmt.Errorf("point (%d, %d) is outside the X coordinate range", x, y)
	}
	c := p.conn.XUtil.Conn()
	current := p.conn.Root
	for hop := 0; hop < maxTreeDepth; hop++ {
		reply, err := xproto.TranslateCoordinates(c, p.conn.Root, current, int16(x), int16(y)).Reply()
		if err != nil {
			return nil, fmt.Errorf("translate (%d, %d) into %s: %w", x, y, Window(current).Key(), err)
		}
		if reply.Child == 0 {
			break
		}
		current = reply.Child
	}
	if current == p.conn.Root {
		return nil, nil
	}
	return Window(current), nil
}

// inInt16 reports whether v fits the protocol's signed 16-bit coordinates.
func inInt16(v int) bool {
	return v >= math.MinInt16 && v <= math.MaxInt16
}

// maxTreeDepth bounds walks through the X window tree.
const maxTreeDepth = 64

func (p *Provider) Parent(h platform.Handle) (platform.Handle, error) {
	win, err := window(h)
	if err != nil {
		return nil, err
	}
	tree, err := xproto.QueryTree(p.conn.XUtil.Conn(), win).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree of %s: %w", Window(win).Key(), err)
	}
	if tree.Parent == 0 || tree.Parent == p.conn.Root {
		return nil, nil
	}
	return Window(tree.Parent), nil
}

func (p *Provider) Children(h platform.Handle) ([]platform.Handle, error) {
	win, err := window(h)
	if err != nil {
		return nil, err
	}
	children, err := p.children(win)
	if err != nil {
		return nil, err
	}
	out := make([]platform.Handle, 0, len(children))
	for _, c := range children {
		out = append(out, Window(c))
	}
	return out, nil
}

func (p *Provider) children(win xproto.Window) ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(p.conn.XUtil.Conn(), win).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree of %s: %w", Window(win).Key(), err)
	}
	return tree.Children, nil
}

func (p *Provider) Descendants(h platform.Handle, maxDepth int) ([]platform.Descendant, error) {
	win, err := window(h)
	if err != nil {
		return nil, err
	}
	top, err := p.children(win)
	if err != nil {
		return nil, err
	}

	var out []platform.Descendant
	var walk func(nodes []xproto.Window, depth int)
	walk = func(nodes []xproto.Window, depth int) {
		for _, n := range nodes {
			out = append(out, platform.Descendant{Node: Window(n), Depth: depth})
			if (maxDepth >= 0 && depth > maxDepth) || depth >= maxTreeDepth {
				continue
			}
			// A window destroyed mid-walk just ends its branch.
			kids, err := p.children(n)
			if err != nil {
				p.log.Debug("x11 subtree unavailable", "window", Window(n).Key(), "err", err)
				continue
			}
			walk(kids, depth+1)
		}
	}
	walk(top, 1)
	return out, nil
}

// Attributes reads the node's properties. A window that no longer exists
// is an error; any other missing property just leaves its field nil.
func (p *Provider) Attributes(h platform.Handle) (platform.Attributes, error) {
	win, err := window(h)
	if err != nil {
		return platform.Attributes{}, err
	}
	xu := p.conn.XUtil

	wa, err := xproto.GetWindowAttributes(xu.Conn(), win).Reply()
	if err != nil {
		return platform.Attributes{}, fmt.Errorf("read attributes of %s: %w", Window(win).Key(), err)
	}

	var a platform.Attributes
	visible := wa.MapState == xproto.MapStateViewable && !p.hidden(win)
	a.Visible = &visible

	if title := p.title(win); title != "" {
		a.Title = &title
	}
	if class, err := icccm.WmClassGet(xu, win); err == nil {
		a.ClassName = platform.String(strings.TrimSpace(class.Class))
		a.Name = platform.String(strings.TrimSpace(class.Instance))
	}
	if role, err := xprop.PropValStr(xprop.GetProperty(xu, win, "WM_WINDOW_ROLE")); err == nil && role != "" {
		a.AutomationID = &role
	}
	if ct := p.controlType(win, wa); ct != "" {
		a.ControlType = &ct
	}
	if r, ok := p.rect(win); ok {
		a.Rect = &r
	}
	return a, nil
}

func (p *Provider) title(win xproto.Window) string {
	xu := p.conn.XUtil
	if title, err := ewmh.WmNameGet(xu, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(xu, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func (p *Provider) hidden(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(p.conn.XUtil, win)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// windowTypes maps EWMH window types to control type names.
var windowTypes = map[string]string{
	"_NET_WM_WINDOW_TYPE_NORMAL":        "Window",
	"_NET_WM_WINDOW_TYPE_DIALOG":        "Dialog",
	"_NET_WM_WINDOW_TYPE_UTILITY":       "Pane",
	"_NET_WM_WINDOW_TYPE_TOOLBAR":       "ToolBar",
	"_NET_WM_WINDOW_TYPE_MENU":          "Menu",
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU": "Menu",
	"_NET_WM_WINDOW_TYPE_POPUP_MENU":    "Menu",
	"_NET_WM_WINDOW_TYPE_TOOLTIP":       "ToolTip",
	"_NET_WM_WINDOW_TYPE_SPLASH":        "Window",
	"_NET_WM_WINDOW_TYPE_DOCK":          "Pane",
	"_NET_WM_WINDOW_TYPE_DESKTOP":       "Pane",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION":  "Window",
}

func (p *Provider) controlType(win xproto.Window, wa *xproto.GetWindowAttributesReply) string {
	if types, err := ewmh.WmWindowTypeGet(p.conn.XUtil, win); err == nil {
		for _, t := range types {
			if ct, ok := windowTypes[t]; ok {
				return ct
			}
		}
	}
	if wa.Class == xproto.WindowClassInputOnly {
		return "InputOnly"
	}
	return ""
}

// rect returns the window's bounds in root coordinates.
func (p *Provider) rect(win xproto.Window) (platform.Rect, bool) {
	c := p.conn.XUtil.Conn()
	geom, err := xproto.GetGeometry(c, xproto.Drawable(win)).Reply()
	if err != nil {
		return platform.Rect{}, false
	}
	tr, err := xproto.TranslateCoordinates(c, win, p.conn.Root, 0, 0).Reply()
	if err != nil {
		return platform.Rect{}, false
	}
	x, y := int(tr.DstX), int(tr.DstY)
	return platform.Rect{Left: x, Top: y, Right: x + int(geom.Width), Bottom: y + int(geom.Height)}, true
}

func (p *Provider) Equal(a, b platform.Handle) bool {
	aw, ok := a.(Window)
	if !ok {
		return false
	}
	bw, ok := b.(Window)
	return ok && aw == bw
}

// CursorPosition reads the pointer position relative to the root window.
func (p *Provider) CursorPosition() (platform.Point, error) {
	reply, err := xproto.QueryPointer(p.conn.XUtil.Conn(), p.conn.Root).Reply()
	if err != nil {
		return platform.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	return platform.Point{X: int(reply.RootX), Y: int(reply.RootY)}, nil
}

func (p *Provider) Close() error {
	p.conn.Close()
	return nil
}

package main

import (
	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/barview"
	"github.com/xqrs/barview/config"
	"github.com/xqrs/barview/help"
	"github.com/xqrs/barview/keybind"
	"github.com/xqrs/barview/layers"
)

// frame lays out the layer stack above a help footer and handles the
// application keys.
type frame struct {
	*barview.Box

	stack      *layers.Layers
	help       *help.Help
	keys       config.KeyMap
	controller *barview.BarController
}

func newFrame(stack *layers.Layers, keys config.KeyMap, controller *barview.BarController) *frame {
	s := &frame{
		Box:        barview.NewBox(),
		stack:      stack,
		help:       help.New(),
		keys:       keys,
		controller: controller,
	}
	s.help.SetKeyMap(keys)
	return s
}

func (s *frame) SetRect(x, y, width, height int) {
	s.Box.SetRect(x, y, width, height)
	s.layout()
}

func (s *frame) layout() {
	x, y, width, height := s.GetRect()
	helpHeight := min(s.help.Height(width), height)
	s.stack.SetRect(x, y, width, height-helpHeight)
	s.help.SetRect(x, y+height-helpHeight, width, helpHeight)
}

func (s *frame) Draw(screen tcell.Screen) {
	s.stack.Draw(screen)
	s.help.Draw(screen)
}

func (s *frame) InputHandler(event *tcell.EventKey) barview.Command {
	switch {
	case keybind.Matches(event, s.keys.Quit):
		return barview.QuitCommand{}
	case keybind.Matches(event, s.keys.Expand):
		s.controller.SetExpanded(true)
		return barview.RedrawCommand{}
	case keybind.Matches(event, s.keys.Collapse):
		s.controller.SetExpanded(false)
		return barview.RedrawCommand{}
	case keybind.Matches(event, s.keys.Help):
		s.help.SetShowAll(!s.help.ShowAll())
		s.layout()
		return barview.RedrawCommand{}
	}
	return s.stack.InputHandler(event)
}

func (s *frame) MouseHandler(action barview.MouseAction, event *tcell.EventMouse) (barview.Primitive, barview.Command) {
	return s.stack.MouseHandler(action, event)
}

func (s *frame) HasFocus() bool {
	return s.stack.HasFocus()
}

func (s *frame) Focus(delegate func(p barview.Primitive)) {
	s.stack.Focus(delegate)
}

func (s *frame) Blur() {
	s.stack.Blur()
}

func (s *frame) IsDirty() bool {
	return s.Box.IsDirty() || s.stack.IsDirty() || s.help.IsDirty()
}

func (s *frame) MarkClean() {
	s.Box.MarkClean()
	s.stack.MarkClean()
	s.help.MarkClean()
}

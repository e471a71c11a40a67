package config

import "fmt"

// DefaultKeys returns the builtin key bindings. User keys are merged over
// these one sequence at a time; bind a sequence to "none" to drop it.
func DefaultKeys() map[string]Binding {
	keys := map[string]Binding{
		"Mod4-Return":       {Action: "exec", Command: []string{"xterm"}},
		"Mod4-c":            {Action: "close_client"},
		"Mod4-Shift-c":      {Action: "close_all_clients"},
		"Mod4-Shift-q":      {Action: "quit"},
		"Mod4-f":            {Action: "change_layout", Arg: "full"},
		"Mod4-p":            {Action: "change_layout", Arg: "preview"},
		"Mod4-s":            {Action: "change_layout", Arg: "stack"},
		"Mod4-t":            {Action: "change_layout", Arg: "tile"},
		"Mod4-j":            {Action: "next_client"},
		"Mod4-k":            {Action: "prev_client"},
		"Mod4-i":            {Action: "adjust_main_capacity", Arg: "1"},
		"Mod4-Shift-i":      {Action: "adjust_main_capacity", Arg: "-1"},
		"Mod4-l":            {Action: "adjust_main_ratio", Arg: "0.01"},
		"Mod4-h":            {Action: "adjust_main_ratio", Arg: "-0.01"},
		"Mod4-Shift-l":      {Action: "adjust_fixed_ratio", Arg: "-0.01"},
		"Mod4-Shift-h":      {Action: "adjust_fixed_ratio", Arg: "0.01"},
		"Mod4-m":            {Action: "change_area", Arg: "main"},
		"Mod4-Shift-s":      {Action: "change_area", Arg: "second"},
		"Mod4-x":            {Action: "change_area", Arg: "fixed"},
		"Mod4-space":        {Action: "change_area", Arg: "floating"},
		"Mod4-n":            {Action: "change_area", Arg: "iconified"},
		"Mod4-Shift-n":      {Action: "iconify_all"},
		"Mod4-Shift-r":      {Action: "deiconify_all"},
		"Mod4-Shift-m":      {Action: "maximize"},
		"Mod4-Up":           {Action: "key_move_resize", Arg: "up"},
		"Mod4-Down":         {Action: "key_move_resize", Arg: "down"},
		"Mod4-Left":         {Action: "key_move_resize", Arg: "left"},
		"Mod4-Right":        {Action: "key_move_resize", Arg: "right"},
		"Mod4-Shift-Up":     {Action: "key_move_resize", Arg: "up-to-up"},
		"Mod4-Shift-Down":   {Action: "key_move_resize", Arg: "down-to-down"},
		"Mod4-Shift-Left":   {Action: "key_move_resize", Arg: "left-to-left"},
		"Mod4-Shift-Right":  {Action: "key_move_resize", Arg: "right-to-right"},
		"Mod4-Control-Up":   {Action: "key_move_resize", Arg: "down-to-up"},
		"Mod4-Control-Down": {Action: "key_move_resize", Arg: "up-to-down"},
		"Mod4-Control-Left": {Action: "key_move_resize", Arg: "right-to-left"},
		"Mod4-Control-Right": {
			Action: "key_move_resize", Arg: "left-to-right",
		},
		"Mod4-Tab":       {Action: "next_desktop"},
		"Mod4-Shift-Tab": {Action: "prev_desktop"},
		"Mod4-e":         {Action: "toggle_focus_mode"},
		"Mod4-b":         {Action: "toggle_border"},
		"Mod4-Shift-t":   {Action: "toggle_title_bar"},
		"Mod4-a":         {Action: "attach_to_all_desktops"},
	}
	for n := 1; n <= 9; n++ {
		arg := fmt.Sprint(n)
		keys[fmt.Sprintf("Mod4-%d", n)] = Binding{Action: "focus_desktop", Arg: arg}
		keys[fmt.Sprintf("Mod4-Shift-%d", n)] = Binding{Action: "move_to_desktop", Arg: arg}
		keys[fmt.Sprintf("Mod4-Control-%d", n)] = Binding{Action: "change_to_desktop", Arg: arg}
		keys[fmt.Sprintf("Mod4-Mod1-%d", n)] = Binding{Action: "attach_to_desktop", Arg: arg}
	}
	return keys
}

// DefaultButtons returns the builtin pointer bindings.
func DefaultButtons() []ButtonBinding {
	return []ButtonBinding{
		{Target: TargetFrame, Button: "1", Action: "pointer_move_resize"},
		{Target: TargetClient, Button: "Mod4-1", Action: "pointer_move"},
		{Target: TargetClient, Button: "Mod4-3", Action: "pointer_resize"},
		{Target: TargetClient, Button: "Mod4-2", Action: "pointer_swap_clients"},
		{Target: TargetClient, Button: "Mod4-Shift-1", Action: "pointer_change_area"},
		{Target: TargetRoot, Button: "1", Action: "adjust_layout_ratio"},
		{Target: TargetIcon, Button: "1", Action: "choose_client"},
	}
}

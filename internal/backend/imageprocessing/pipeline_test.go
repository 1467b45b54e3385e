package imageprocessing

import (
	"errors"
	"image/color"
	"testing"
)

func TestPipeline_DefaultsYieldEncodeOnly(t *testing.T) {
	defaults := map[string]float64{
		"saturation": 100,
		"brightness": 0,
		"contrast":   0,
		"sharpness":  0,
		"blur":       0,
	}

	commands, err := Pipeline(defaults)
	if err != nil {
		t.Fatalf("Pipeline error: %v", err)
	}
	if len(commands) != 1 {
		t.Fatalf("expected only the encode step for identity adjustments, got %d commands", len(commands))
	}
	if commands[0].Name() != "JPEGEncodeCommand" {
		t.Errorf("expected terminal JPEGEncodeCommand, got %q", commands[0].Name())
	}
}

func TestPipeline_AllAdjustmentsActive(t *testing.T) {
	adjustments := map[string]float64{
		"saturation": 50,
		"brightness": 20,
		"contrast":   -10,
		"sharpness":  30,
		"blur":       2,
	}

	commands, err := Pipeline(adjustments)
	if err != nil {
		t.Fatalf("Pipeline error: %v", err)
	}
	// Five adjustment steps plus the terminal encode.
	if len(commands) != 6 {
		t.Fatalf("expected 6 commands, got %d", len(commands))
	}

	expected := []string{
		"SaturationCommand",
		"BrightnessCommand",
		"ContrastCommand",
		"SharpnessCommand",
		"BlurCommand",
		"JPEGEncodeCommand",
	}
	for i, name := range expected {
		if commands[i].Name() != name {
			t.Errorf("command[%d]: expected %q, got %q", i, name, commands[i].Name())
		}
	}
}

func TestRender_ProducesJPEGWithOriginalDimensions(t *testing.T) {
	input := makePNG(t, 20, 10, color.NRGBA{R: 120, G: 60, B: 200, A: 255})

	out, err := Render(input, map[string]float64{
		"saturation": 80,
		"brightness": 10,
		"contrast":   0,
		"sharpness":  0,
		"blur":       1,
	})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	meta, err := ReadMetadata(out)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.Format != "JPEG" {
		t.Errorf("expected JPEG output, got %q", meta.Format)
	}
	if meta.Width != 20 || meta.Height != 10 {
		t.Errorf("expected 20x10, got %dx%d", meta.Width, meta.Height)
	}
}

func TestRender_DefaultsKeepDimensionsAndEncode(t *testing.T) {
	input := makePNG(t, 8, 8, color.NRGBA{R: 5, G: 5, B: 5, A: 255})

	out, err := Render(input, map[string]float64{"saturation": 100})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	meta, err := ReadMetadata(out)
	if err != nil {
		t.Fatalf("ReadMetadata error: %v", err)
	}
	if meta.Format != "JPEG" {
		t.Errorf("expected JPEG even without active adjustments, got %q", meta.Format)
	}
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	registry := NewCommandRegistry()

	err := registry.Register("TestCommand", func(params map[string]any) (Command, error) {
		return &mockCommand{name: "TestCommand"}, nil
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if !registry.IsRegistered("TestCommand") {
		t.Error("expected TestCommand to be registered")
	}

	command, err := registry.Create("TestCommand", nil)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if command.Name() != "TestCommand" {
		t.Errorf("expected name TestCommand, got %q", command.Name())
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry := NewCommandRegistry()
	factory := func(params map[string]any) (Command, error) {
		return &mockCommand{name: "X"}, nil
	}

	if err := registry.Register("X", factory); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := registry.Register("X", factory); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestRegistry_UnknownCommand(t *testing.T) {
	registry := NewCommandRegistry()
	if _, err := registry.Create("UnknownCommand", nil); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestDefaultRegistry_AdjustmentCommands(t *testing.T) {
	for _, name := range []string{"grayscale", "saturation", "brightness", "contrast", "sharpness", "blur", "scale", "jpegencode"} {
		if !DefaultRegistry.IsRegistered(name) {
			t.Errorf("expected %q to be registered in DefaultRegistry", name)
		}
	}
}

func TestCommandInvoker_EmptyList(t *testing.T) {
	testData := []byte("test data")

	result, err := NewCommandInvoker(nil).Execute(testData)
	if err != nil {
		t.Errorf("expected no error for empty command list, got %v", err)
	}
	if string(result) != string(testData) {
		t.Error("expected result to match input for empty command list")
	}
}

func TestCommandInvoker_SequentialExecution(t *testing.T) {
	appendCommand := func(suffix string) Command {
		return &mockCommand{
			name: "Append" + suffix,
			executeFunc: func(data []byte) ([]byte, error) {
				return append(data, []byte(suffix)...), nil
			},
		}
	}

	invoker := NewCommandInvoker([]Command{appendCommand("A"), appendCommand("B")})
	result, err := invoker.Execute([]byte("x"))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if string(result) != "xAB" {
		t.Errorf("expected commands applied in order, got %q", string(result))
	}
}

func TestCommandInvoker_StopsOnError(t *testing.T) {
	failure := errors.New("boom")
	invoker := NewCommandInvoker([]Command{
		&mockCommand{name: "Failing", executeFunc: func([]byte) ([]byte, error) {
			return nil, failure
		}},
		&mockCommand{name: "Unreached"},
	})

	_, err := invoker.Execute([]byte("x"))
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !errors.Is(err, failure) {
		t.Errorf("expected wrapped original error, got %v", err)
	}
}

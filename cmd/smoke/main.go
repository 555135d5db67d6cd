package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// smallest PNG the upload sniffer accepts
var pngBytes = []byte{
	0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

var baseURL string

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func do(req *http.Request, token string) (*http.Response, []byte, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

// Request helper
func sendJSON(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req, token)
}

func sendFile(url, token, field, campo, filename string, content []byte) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, nil, err
	}
	if campo != "" {
		_ = w.WriteField("campo", campo)
	}
	if err := w.Close(); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return do(req, token)
}

func step(title string, resp *http.Response, body []byte, err error, want int) {
	color.Yellow("\n%s", title)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode != want {
		color.Red("Status: %s (expected %d)", resp.Status, want)
		prettyPrint(body)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)
}

func main() {
	flag.StringVar(&baseURL, "url", "http://localhost:3001/api", "API base URL")
	cpf := flag.String("cpf", "529.982.247-25", "CPF used for the throwaway provider")
	flag.Parse()

	color.Cyan("🚀 Starting provider onboarding smoke test against %s\n", baseURL)

	// 1. Register
	email := fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8])
	resp, body, err := sendJSON(http.MethodPost, "/auth/register", "", map[string]string{
		"nome":  "Maria Smoke",
		"email": email,
		"senha": "segredo123",
		"cpf":   *cpf,
	})
	step("1. Register "+email, resp, body, err, http.StatusCreated)

	var registered struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &registered); err != nil || registered.Data.Token == "" {
		color.Red("No token in register response")
		os.Exit(1)
	}
	token := registered.Data.Token

	// 2. Login
	resp, body, err = sendJSON(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "senha": "segredo123"})
	step("2. Login", resp, body, err, http.StatusOK)

	// 3. Chat turns
	turns := []string{
		"Olá, quero completar meu cadastro",
		"Meu telefone é (11) 98765-4321 e meu RG é 12.345.678-9",
		"Moro em Santos/SP, CEP 11000-000, Rua das Flores, 100, bairro Centro",
		"Quero atender em Santos/SP, categorias: limpeza, jardinagem",
	}
	for i, text := range turns {
		start := time.Now()
		resp, body, err = sendJSON(http.MethodPost, "/chatbot/chat", token, map[string]string{"message": text})
		step(fmt.Sprintf("3.%d Chat (%v): %s", i+1, time.Since(start).Round(time.Millisecond), text), resp, body, err, http.StatusOK)
	}

	// 4. History
	resp, body, err = sendJSON(http.MethodGet, "/chatbot/history", token, nil)
	step("4. History", resp, body, err, http.StatusOK)

	// 5. Upload profile photo
	resp, body, err = sendFile("/upload/single", token, "file", "fotoPerfil", "perfil.png", pngBytes)
	step("5. Upload fotoPerfil", resp, body, err, http.StatusOK)

	// 6. Stage overview
	resp, body, err = sendJSON(http.MethodGet, "/auth/me", token, nil)
	step("6. Me", resp, body, err, http.StatusOK)

	color.Cyan("\n✅ Smoke test finished")
}

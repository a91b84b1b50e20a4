package ports

import "context"

// LLMService define el puerto de salida hacia el servicio de redacción asistida por IA.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// El texto devuelto nunca se persiste ni se usa como entrada de autorización.
type LLMService interface {
	// Draft envía el prompt con el rol de sistema indicado y devuelve el texto generado.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Draft(ctx context.Context, system, prompt string) (string, error)
}

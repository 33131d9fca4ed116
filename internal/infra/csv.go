package infra

// csv.go — tabular serialization of the reporting engine's flat rows.
// One file per "sheet": pedidos (one row per order) and items (one row per
// order item). Used by the export download endpoint and the report mailer.

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"chichapos/internal/dto"
)

// FilasPedidosCSV returns the header plus one record per pedido.
func FilasPedidosCSV(rep *dto.ExportReporte) [][]string {
	out := [][]string{{"pedido", "fecha", "cliente", "tipo", "metodo_pago", "estado", "estado_pago", "total"}}
	for _, f := range rep.Pedidos {
		out = append(out, []string{
			f.ID, f.Fecha, f.Cliente, f.Tipo, f.MetodoPago, f.Estado, f.EstadoPago, f.Total.StringFixed(2),
		})
	}
	return out
}

// FilasItemsCSV returns the header plus one record per pedido item.
func FilasItemsCSV(rep *dto.ExportReporte) [][]string {
	out := [][]string{{"pedido", "producto", "cantidad", "precio_unitario", "subtotal"}}
	for _, f := range rep.Items {
		out = append(out, []string{
			f.PedidoID, f.Producto, fmt.Sprintf("%d", f.Cantidad),
			f.PrecioUnitario.StringFixed(2), f.Subtotal.StringFixed(2),
		})
	}
	return out
}

// EscribirCSV streams records to w.
func EscribirCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// EscribirReporteCSV writes both sheets under dir and returns their paths,
// for attaching to the report mail.
func EscribirReporteCSV(dir string, rep *dto.ExportReporte) (string, string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("export: create dir: %w", err)
	}

	pedidosPath := filepath.Join(dir, "reporte_pedidos.csv")
	itemsPath := filepath.Join(dir, "reporte_items.csv")

	if err := escribirArchivo(pedidosPath, FilasPedidosCSV(rep)); err != nil {
		return "", "", err
	}
	if err := escribirArchivo(itemsPath, FilasItemsCSV(rep)); err != nil {
		return "", "", err
	}
	return pedidosPath, itemsPath, nil
}

func escribirArchivo(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()
	return EscribirCSV(f, records)
}

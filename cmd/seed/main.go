// seed loads demo categories, products and customers so a fresh database can
// take sales right away. Running it again restores the demo rows in place.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"

	"pdv/internal/config"
	"pdv/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Restoring categories...")
	_, err = tx.Exec(ctx, `
		INSERT INTO categorias (id, nome, descricao) VALUES
		    ('0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1001', 'Mercearia', 'Alimentos nao pereciveis'),
		    ('0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1002', 'Bebidas',   'Bebidas em geral'),
		    ('0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1003', 'Limpeza',   'Produtos de limpeza')
		ON CONFLICT (id) DO UPDATE
		  SET nome = EXCLUDED.nome,
		      descricao = EXCLUDED.descricao;
	`)
	if err != nil {
		log.Fatalf("Failed to restore categories: %v", err)
	}

	log.Println("Restoring products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO produtos (id, nome, codigo_barras, sku, preco_venda, preco_custo, unidade_medida, categoria_id, criado_por)
		VALUES
		    ('5c2e7f10-8a4b-4d2e-a1c3-6e9b2f7d2001', 'Cafe torrado 500g',   '7891000100101', 'MERC-CAFE-500', 1890, 1150, 'pacote',  '0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1001', 'seed'),
		    ('5c2e7f10-8a4b-4d2e-a1c3-6e9b2f7d2002', 'Arroz tipo 1 5kg',    '7891000100202', 'MERC-ARROZ-5',  2790, 1980, 'pacote',  '0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1001', 'seed'),
		    ('5c2e7f10-8a4b-4d2e-a1c3-6e9b2f7d2003', 'Agua mineral 1,5l',   '7891000100303', 'BEB-AGUA-15',    350,  140, 'unidade', '0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1002', 'seed'),
		    ('5c2e7f10-8a4b-4d2e-a1c3-6e9b2f7d2004', 'Detergente neutro',   '7891000100404', 'LIMP-DET-500',   249,  120, 'unidade', '0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1003', 'seed'),
		    ('5c2e7f10-8a4b-4d2e-a1c3-6e9b2f7d2005', 'Queijo minas frescal','7891000100505', 'MERC-QUEIJO-KG', 4990, 3100, 'kg',      '0b8f5a8e-2d55-4c1e-9b3f-1f6a0c9d1001', 'seed')
		ON CONFLICT (id) DO UPDATE
		  SET nome = EXCLUDED.nome,
		      codigo_barras = EXCLUDED.codigo_barras,
		      sku = EXCLUDED.sku,
		      preco_venda = EXCLUDED.preco_venda,
		      preco_custo = EXCLUDED.preco_custo,
		      unidade_medida = EXCLUDED.unidade_medida,
		      categoria_id = EXCLUDED.categoria_id,
		      status = 'ativo';
	`)
	if err != nil {
		log.Fatalf("Failed to restore products: %v", err)
	}

	log.Println("Restoring customers...")
	_, err = tx.Exec(ctx, `
		INSERT INTO clientes (id, nome, tipo, cpf_cnpj, email, cidade, estado, cep, limite_credito, criado_por)
		VALUES
		    ('9d4a3b21-6c7e-4f80-b2d9-3a1e5c8f3001', 'Maria Aparecida Souza', 'pessoa_fisica',   '52998224725',    'maria.souza@example.com', 'Campinas',  'SP', '13010000', 50000,  'seed'),
		    ('9d4a3b21-6c7e-4f80-b2d9-3a1e5c8f3002', 'Mercadinho Boa Vista',  'pessoa_juridica', '11222333000181', 'compras@boavista.example', 'Recife',    'PE', '50010000', 300000, 'seed')
		ON CONFLICT (id) DO UPDATE
		  SET nome = EXCLUDED.nome,
		      tipo = EXCLUDED.tipo,
		      cpf_cnpj = EXCLUDED.cpf_cnpj,
		      email = EXCLUDED.email,
		      status = 'ativo';
	`)
	if err != nil {
		log.Fatalf("Failed to restore customers: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data restored successfully.")
}
